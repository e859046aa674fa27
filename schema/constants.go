package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the match store.
	DatabaseBackend string

	// CacheBackend represents the backend for the dump cache.
	CacheBackend string

	// Outcome is the result of a match from the target player's point of view.
	Outcome string

	// Winner is the side that won a match.
	Winner string

	// FileStatus is the per-file result of an ingest batch.
	FileStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All match store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All dump cache backends supported. The SQL backends share names with DatabaseBackend.
const (
	SQLiteCache     CacheBackend = "sqlite" // default
	MySQLCache      CacheBackend = "mysql"
	PostgreSQLCache CacheBackend = "postgresql"
	RedisCache      CacheBackend = "redis"
	NoneCache       CacheBackend = "none"
)

// Outcomes relative to the target player.
const (
	OutcomeSelf  Outcome = "Self"
	OutcomeOther Outcome = "Other"
	OutcomeNone  Outcome = "None"
)

// Winners of a single match.
const (
	PlayerOne Winner = "PlayerOne"
	PlayerTwo Winner = "PlayerTwo"
	Draw      Winner = "Draw"
)

// Per-file statuses of an ingest batch.
const (
	StatusProcessed   FileStatus = "processed"
	StatusToolError   FileStatus = "tool_error"
	StatusFormatError FileStatus = "format_error"
)

// Remote and export table names.
const (
	GameDataTable       = "gamedata"
	MatchupResultsTable = "matchupresults"
	StageResultsTable   = "stageresults"
)

// Export file names written to the export directory.
const (
	GameDataFile       = "GameData.csv"
	MatchupResultsFile = "MatchupResults.csv"
	StageResultsFile   = "StageResults.csv"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid match store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCacheBackends lists all valid dump cache backends.
var ValidCacheBackends = map[CacheBackend]struct{}{
	SQLiteCache:     {},
	MySQLCache:      {},
	PostgreSQLCache: {},
	RedisCache:      {},
	NoneCache:       {},
}
