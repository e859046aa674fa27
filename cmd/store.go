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

// storeSetup loads minimal configuration needed for match store operations.
func storeSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// openStore initializes the global manager with only the match store.
func openStore() contract.MatchStore {
	if err := iocache.InitStores(&contract.Config{StoreBackend: cfg.StoreBackend, StoreDBConnect: cfg.StoreDBConnect}); err != nil {
		contract.LogFatal("Failed to initialize match store", err)
	}
	store := storeManager.GetMatchStore()
	if store == nil {
		contract.LogFatal("Match store unavailable", errors.New("store backend is none"))
	}
	return store
}

// storeCmd focused on match store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by pipeline commands. This avoids replay root
// validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the match store (the gamedata table)",
	Long: `Manage the table of processed matches that ingest writes and stats reads.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (GameData.csv only)

Subcommands:
  status  - Show match counts and connection info
  clear   - Remove every stored match
  export  - Write every stored match to a Parquet file
  migrate - Apply schema migrations`,
}

// storeClearCmd clears the match store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored matches",
	Long: `Delete every stored match from the configured backend. The next ingest with
--full rebuilds the table from the replay folder.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the gamedata table

Examples:
  slippistats store clear
  SLIPPISTATS_STORE_BACKEND=postgresql SLIPPISTATS_STORE_DB_CONNECT="..." slippistats store clear`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeStatusCmd shows match store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display match store statistics and connection details",
	Long: `Show the backend, connection state, number of matches and players, and the range
of game dates in the match store.

Examples:
  slippistats store status`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := openStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeExportCmd exports the match store to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every stored match to a Parquet file",
	Long: `Write the whole gamedata table to --output-file in Parquet format for analysis
with tools such as DuckDB or pandas.

Examples:
  slippistats store export --output-file matches.parquet`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportStoreParquet(os.Stdout, openStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export matches", err)
		}
	},
}

// storeMigrateCmd runs schema migrations on the match store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply match store schema migrations",
	Long: `Migrate the gamedata schema of the configured backend to the latest version, or to
--target-version. Version 0 rolls back every migration.

Examples:
  slippistats store migrate
  slippistats store migrate --target-version 1`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateStore(os.Stdout, cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
	},
}
