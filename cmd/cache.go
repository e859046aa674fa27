package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/iocache"
	"github.com/huangsam/slippistats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.CacheBackend(strings.ToLower(viper.GetString("cache-backend")))
	connStr := viper.GetString("cache-db-connect")
	if _, ok := schema.ValidCacheBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", backend)
	}
	if err := contract.ValidateCacheConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the replay dump cache (improves performance)",
	Long: `Manage the cache of raw extractor output that speeds up repeated ingests.

Running the extractor is by far the slowest part of an ingest. Its output is cached
by replay path, modification time, size and extractor command, so ingest --full and
re-runs after a crash do not invoke the extractor again for unchanged files.

Supported backends: SQLite (default), MySQL, PostgreSQL, Redis, or None

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  slippistats cache status
  slippistats cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached replay dumps",
	Long: `Delete all cached extractor output from the configured backend.

Use this when:
- The extractor script changed output without changing its command line
- The cache may be stale or corrupted

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table
For Redis: Deletes every slippistats key

Examples:
  slippistats cache clear
  SLIPPISTATS_CACHE_BACKEND=redis SLIPPISTATS_CACHE_DB_CONNECT="redis://localhost:6379/0" slippistats cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the dump cache.

Displays:
- Backend type and connection status
- Total number of cached dumps
- Last and oldest cache entry timestamps
- Cache size

Examples:
  slippistats cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.InitStores(&contract.Config{CacheBackend: cfg.CacheBackend, CacheDBConnect: cfg.CacheDBConnect}); err != nil {
			contract.LogFatal("Failed to initialize cache", err)
		}
		cache := storeManager.GetDumpCache()
		if cache == nil {
			contract.LogFatal("Dump cache unavailable", errors.New("cache backend is none"))
		}
		status, err := cache.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
