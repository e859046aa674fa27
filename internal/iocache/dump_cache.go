package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// dumpCacheTable is the name of the table holding cached tool output.
const dumpCacheTable = "slippistats_dump_cache"

// SQLDumpCache keeps raw tool output in a SQL table.
type SQLDumpCache struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.DumpCache = &SQLDumpCache{} // Compile-time check

// NewDumpCache initializes the dump cache for the given backend. Redis and none
// are handled here too so callers need a single constructor. The ttl is only
// used by Redis, which expires keys itself; SQL entries are aged out on read.
func NewDumpCache(backend schema.CacheBackend, connStr string, ttl time.Duration) (contract.DumpCache, error) {
	switch backend {
	case schema.NoneCache:
		return &SQLDumpCache{tableName: dumpCacheTable, backend: schema.NoneBackend}, nil
	case schema.RedisCache:
		cache, err := NewRedisDumpCache(connStr, ttl)
		if err != nil {
			return nil, err
		}
		return cache, nil
	}
	cache, err := newSQLDumpCache(dumpCacheTable, schema.DatabaseBackend(backend), connStr)
	if err != nil {
		return nil, err
	}
	return cache, nil
}

func newSQLDumpCache(tableName string, backend schema.DatabaseBackend, connStr string) (*SQLDumpCache, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	db, err := openDB(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateCacheTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SQLDumpCache{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateCacheTableQuery returns the CREATE TABLE query for the given backend.
func getCreateCacheTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGBLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a cached dump by key.
func (c *SQLDumpCache) Get(key string) ([]byte, int, int64, error) {
	if c.db == nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", contract.ErrCacheMiss, sql.ErrNoRows)
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		quoteTableName(c.tableName, c.backend), placeholder(c.backend, 1))
	if err := c.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, 0, fmt.Errorf("%w: %w", contract.ErrCacheMiss, err)
		}
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a cached dump.
func (c *SQLDumpCache) Set(key string, value []byte, version int, timestamp int64) error {
	if c.db == nil {
		return nil
	}
	_, err := c.db.Exec(c.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (c *SQLDumpCache) getUpsertQuery() string {
	quotedTableName := quoteTableName(c.tableName, c.backend)
	switch c.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (c *SQLDumpCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// GetStatus returns entry counts, age range and an estimate of the table size.
func (c *SQLDumpCache) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(c.backend),
		Connected: c.db != nil,
	}
	if c.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(c.tableName, c.backend)
	query := fmt.Sprintf("SELECT COUNT(*), COALESCE(MIN(cache_timestamp), 0), COALESCE(MAX(cache_timestamp), 0) FROM %s", quotedTableName)
	var oldestTs, lastTs int64
	if err := c.db.QueryRow(query).Scan(&status.TotalEntries, &oldestTs, &lastTs); err != nil {
		return status, fmt.Errorf("failed to get cache entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}
	status.OldestEntryTime = time.Unix(oldestTs, 0)
	status.LastEntryTime = time.Unix(lastTs, 0)

	// Rough estimate when the backend cannot report a size
	status.TableSizeBytes = int64(status.TotalEntries) * 4000
	switch c.backend {
	case schema.SQLiteBackend:
		row := c.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		_ = row.Scan(&status.TableSizeBytes)
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(c.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		row := c.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, c.tableName)
		_ = row.Scan(&status.TableSizeBytes)
	case schema.PostgreSQLBackend:
		row := c.db.QueryRow("SELECT pg_total_relation_size($1)", c.tableName)
		_ = row.Scan(&status.TableSizeBytes)
	}
	return status, nil
}
