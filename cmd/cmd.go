// Package cmd defines the command-line interface for slippistats.
package cmd

import (
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("root", "", "Replay root directory (overridden by the positional argument)")
	rootCmd.PersistentFlags().String("state-file", "", "Path of the incremental cutoff file (default: one file per replay root in the home directory)")
	rootCmd.PersistentFlags().Int("frames-per-minute", contract.DefaultFramesPerMinute, "Frames per minute used to convert game length")
	rootCmd.PersistentFlags().Int("stock-threshold", contract.DefaultStockWinThreshold, "Stocks taken that count as a win against a lower count")
	rootCmd.PersistentFlags().StringP("player", "p", "", "Display name of the player to compute stats for")
	rootCmd.PersistentFlags().Bool("exclude-self-play", false, "Ignore matches where the player faced themselves")
	rootCmd.PersistentFlags().String("replay-ext", contract.DefaultReplayExt, "Replay file extension")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("extractor-cmd", contract.DefaultExtractorCommand, "Command that dumps a replay; the replay path is appended")
	rootCmd.PersistentFlags().String("extractor-timeout", contract.DefaultExtractorTimeout.String(), "Time limit for one extractor run")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for percentages")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Prefix progress lines with emoji (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("export-dir", ".", "Directory for GameData.csv, MatchupResults.csv and StageResults.csv")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Match store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the match store")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteCache), "Dump cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string for the dump cache (redis:// URL for redis)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "Age after which cached dumps are ignored (0 = never)")
	rootCmd.PersistentFlags().String("remote-db-connect", "", "PostgreSQL host and database for upload; credentials come from the environment")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags are bound to Viper in sharedSetup for the command being run
	ingestCmd.Flags().Bool("full", false, "Ignore the cutoff and process every replay")
	runCmd.Flags().Bool("full", false, "Ignore the cutoff and process every replay")
	runCmd.Flags().Bool("upload", false, "Upload the exported tables after computing stats")
	runCmd.Flags().Bool("remote-truncate", false, "Truncate remote tables before loading")
	uploadCmd.Flags().Bool("remote-truncate", false, "Truncate remote tables before loading")

	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
