package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCacheMiss is wrapped by DumpCache.Get when the key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// ExternalToolError is returned when the dump tool fails, times out or cannot be started.
type ExternalToolError struct {
	Command  string
	Args     []string
	ExitCode int // -1 when the process never produced an exit status
	Output   string
	TimedOut bool
	Timeout  time.Duration
	Err      error
}

func (e *ExternalToolError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	switch {
	case e.TimedOut:
		return fmt.Sprintf("command %q timed out after %s", cmdline, e.Timeout)
	case e.ExitCode < 0:
		return fmt.Sprintf("command %q could not be run: %v", cmdline, e.Err)
	default:
		return fmt.Sprintf("command %q exited with code %d: %s", cmdline, e.ExitCode, strings.TrimSpace(e.Output))
	}
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// DataFormatError is returned when a dump does not yield a well-formed match.
type DataFormatError struct {
	Path   string
	Field  string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := fmt.Sprintf("malformed %s", e.Field)
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// PersistedStateError is returned when the cutoff state file cannot be read or written.
// A read failure is not fatal: callers fall back to the epoch.
type PersistedStateError struct {
	Path string
	Op   string // "read", "parse" or "write"
	Err  error
}

func (e *PersistedStateError) Error() string {
	return fmt.Sprintf("cutoff state %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistedStateError) Unwrap() error { return e.Err }

// RemoteStoreError is returned when an upload to the remote store fails.
type RemoteStoreError struct {
	Table string
	Op    string // "connect", "role", "truncate", "copy", "commit" or "read"
	Err   error
}

func (e *RemoteStoreError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("remote store %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote store %s failed for table %q: %v", e.Op, e.Table, e.Err)
}

func (e *RemoteStoreError) Unwrap() error { return e.Err }
