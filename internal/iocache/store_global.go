package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the match store and dump cache.
// A "none" or empty backend leaves the corresponding slot nil.
func InitStores(cfg *contract.Config) error {
	var initErr error

	initOnce.Do(func() {
		var matches contract.MatchStore
		if cfg.StoreBackend != "" && cfg.StoreBackend != schema.NoneBackend {
			store, err := NewMatchStore(cfg.StoreBackend, cfg.StoreDBConnect)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize match store: %w", err)
				return
			}
			matches = store
		}

		var dumps contract.DumpCache
		if cfg.CacheBackend != "" && cfg.CacheBackend != schema.NoneCache {
			cache, err := NewDumpCache(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheTTL)
			if err != nil {
				if matches != nil {
					_ = matches.Close()
				}
				initErr = fmt.Errorf("failed to initialize dump cache: %w", err)
				return
			}
			dumps = cache
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.matches = matches
		Manager.dumps = dumps
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.matches != nil {
			_ = Manager.matches.Close()
		}
		if Manager.dumps != nil {
			_ = Manager.dumps.Close()
		}
	})
}

// ClearStore removes all stored matches.
// For SQLite it deletes the database file, for MySQL and PostgreSQL it drops the table.
func ClearStore(backend schema.DatabaseBackend, connStr string) error {
	return clearBackend(backend, connStr, contract.GetStoreDBFilePath(), gameDataTable, "schema_migrations")
}

// ClearCache removes all cached dumps.
func ClearCache(backend schema.CacheBackend, connStr string) error {
	if backend == schema.RedisCache {
		cache, err := NewRedisDumpCache(connStr, 0)
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, err = cache.Clear(ctx)
		return err
	}
	return clearBackend(schema.DatabaseBackend(backend), connStr, contract.GetCacheDBFilePath(), dumpCacheTable)
}

func clearBackend(backend schema.DatabaseBackend, connStr, defaultPath string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		path := connStr
		if path == "" {
			path = defaultPath
		}
		if path == ":memory:" {
			return nil
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", path, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr, "")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range tables {
			if err := dropTable(db, backend, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropTable drops the table if it exists.
func dropTable(db *sql.DB, backend schema.DatabaseBackend, table string) error {
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}
