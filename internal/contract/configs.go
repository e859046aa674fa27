package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/slippistats/schema"
)

// Default values for configuration.
const (
	DefaultFramesPerMinute   = 3600 // 60 frames per second
	DefaultStockWinThreshold = 4
	DefaultReplayExt         = ".slp"
	DefaultPrecision         = 1
	DefaultCacheTTL          = 30 * 24 * time.Hour
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the pipeline.
// This struct remains the "final, validated" config.
type Config struct {
	RootDir           string
	StatePath         string
	FramesPerMinute   int
	StockWinThreshold int
	TargetPlayer      string
	ExcludeSelfPlay   bool
	ReplayExt         string
	Excludes          []string
	FullRescan        bool

	ExtractorCommand string
	ExtractorTimeout time.Duration
	Workers          int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	UseEmojis  bool
	ExportDir  string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.CacheBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	RemoteDBConnect string // Host/dbname only; credentials come from the environment
	RemoteTruncate  bool
	Upload          bool
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RootDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Root             string `mapstructure:"root"`
	StateFile        string `mapstructure:"state-file"`
	FramesPerMinute  int    `mapstructure:"frames-per-minute"`
	StockThreshold   int    `mapstructure:"stock-threshold"`
	Player           string `mapstructure:"player"`
	ExcludeSelfPlay  bool   `mapstructure:"exclude-self-play"`
	ReplayExt        string `mapstructure:"replay-ext"`
	Exclude          string `mapstructure:"exclude"`
	ExtractorCmd     string `mapstructure:"extractor-cmd"`
	ExtractorTimeout string `mapstructure:"extractor-timeout"`
	Workers          int    `mapstructure:"workers"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Emoji            string `mapstructure:"emoji"`
	ExportDir        string `mapstructure:"export-dir"`
	StoreBackend     string `mapstructure:"store-backend"`
	StoreDBConnect   string `mapstructure:"store-db-connect"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	RemoteDBConnect  string `mapstructure:"remote-db-connect"`

	// --- Fields from ingestCmd.Flags() / runCmd.Flags() ---
	Full bool `mapstructure:"full"`

	// --- Fields from uploadCmd.Flags() / runCmd.Flags() ---
	RemoteTruncate bool `mapstructure:"remote-truncate"`
	Upload         bool `mapstructure:"upload"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolvePaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("unsupported backend: %s", backend)
	}
	return nil
}

// ValidateCacheConnectionString validates the dump cache connection string.
// Redis accepts a redis:// URL; the SQL backends share the store rules.
func ValidateCacheConnectionString(backend schema.CacheBackend, connStr string) error {
	if backend == schema.RedisCache {
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s cache", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must be a redis:// or rediss:// URL")
		}
		return nil
	}
	return ValidateDatabaseConnectionString(schema.DatabaseBackend(backend), connStr)
}

// validateBackendConfigs validates store and cache backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.CacheBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateCacheConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// SQLite store and cache must not share a file
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.CacheBackend == schema.SQLiteCache {
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetStoreDBFilePath()
		}
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		if storePath == cachePath {
			return fmt.Errorf("store and cache must use different SQLite database files. Both resolve to %q", storePath)
		}
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl value: %w", err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	cfg.RemoteDBConnect = input.RemoteDBConnect
	if cfg.RemoteDBConnect != "" {
		if err := ValidateDatabaseConnectionString(schema.PostgreSQLBackend, cfg.RemoteDBConnect); err != nil {
			return fmt.Errorf("invalid remote-db-connect: %w", err)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.TargetPlayer = strings.TrimSpace(input.Player)
	cfg.ExcludeSelfPlay = input.ExcludeSelfPlay
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.FullRescan = input.Full
	cfg.RemoteTruncate = input.RemoteTruncate
	cfg.Upload = input.Upload

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// --- 1. Frames and Threshold Validation ---
	if input.FramesPerMinute <= 0 {
		return fmt.Errorf("frames-per-minute must be greater than 0 (received %d)", input.FramesPerMinute)
	}
	cfg.FramesPerMinute = input.FramesPerMinute

	if input.StockThreshold <= 0 {
		return fmt.Errorf("stock-threshold must be greater than 0 (received %d)", input.StockThreshold)
	}
	cfg.StockWinThreshold = input.StockThreshold

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Extractor Validation ---
	cfg.ExtractorCommand = strings.TrimSpace(input.ExtractorCmd)
	if cfg.ExtractorCommand == "" {
		return fmt.Errorf("extractor-cmd cannot be empty")
	}
	cfg.ExtractorTimeout = DefaultExtractorTimeout
	if input.ExtractorTimeout != "" {
		timeout, err := time.ParseDuration(input.ExtractorTimeout)
		if err != nil {
			return fmt.Errorf("invalid --extractor-timeout value: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("extractor-timeout must be positive (received %s)", input.ExtractorTimeout)
		}
		cfg.ExtractorTimeout = timeout
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 0 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 5. Replay Extension and Excludes Processing ---
	ext := strings.TrimSpace(input.ReplayExt)
	if ext == "" {
		ext = DefaultReplayExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	cfg.ReplayExt = strings.ToLower(ext)

	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// resolvePaths resolves the replay root, state file and export directory.
func resolvePaths(cfg *Config, input *ConfigRawInput) error {
	root := input.RootDirStr
	if root == "" {
		root = input.Root
	}
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory %q: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("root directory %q is not accessible: %w", absRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path %q is not a directory", absRoot)
	}
	cfg.RootDir = absRoot

	cfg.StatePath = input.StateFile
	if cfg.StatePath == "" {
		cfg.StatePath = GetRootCutoffFilePath(absRoot)
	}

	cfg.ExportDir = input.ExportDir
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	return nil
}
