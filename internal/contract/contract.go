// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"io"
	"time"

	"github.com/huangsam/slippistats/schema"
)

// ExtractorClient produces the raw text dump for a replay file.
// This allows the pipeline to be tested without the external tool installed.
type ExtractorClient interface {
	// Dump runs the tool for one replay file and returns its stdout.
	// Failures are reported as *ExternalToolError.
	Dump(ctx context.Context, path string) ([]byte, error)
}

// StoreManager defines the interface for managing the persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetMatchStore() MatchStore
	GetDumpCache() DumpCache
}

// MatchStore is the local analytical table of match records.
type MatchStore interface {
	// InsertMatches upserts records by game id in a single transaction.
	InsertMatches(records []schema.MatchRecord) error

	// AllMatches returns every stored record ordered by game id.
	AllMatches() ([]schema.MatchRecord, error)

	// MatchesForPlayer returns the records where either side is the named player.
	MatchesForPlayer(name string) ([]schema.MatchRecord, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// DumpCache stores raw tool output keyed by file identity.
type DumpCache interface {
	// Get returns an error wrapping ErrCacheMiss when key is absent.
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// CutoffStore persists the incremental selection watermark.
type CutoffStore interface {
	// Load returns the stored cutoff. On failure it returns the zero time
	// and a *PersistedStateError.
	Load() (time.Time, error)

	// Save records a new cutoff.
	Save(t time.Time) error
}

// RemoteUploader bulk-loads a delimited table into the remote store.
type RemoteUploader interface {
	Upload(ctx context.Context, table string, csv io.Reader) (int64, error)
	Close()
}
