package contract

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"tool exit", &ExternalToolError{Command: "node", Args: []string{"a.slp"}, ExitCode: 2, Output: " bad replay \n"}, `command "node a.slp" exited with code 2: bad replay`},
		{"tool timeout", &ExternalToolError{Command: "node", TimedOut: true, Timeout: time.Second, Err: base}, "timed out after 1s"},
		{"tool start", &ExternalToolError{Command: "node", ExitCode: -1, Err: base}, "could not be run: boom"},
		{"format", &DataFormatError{Path: "a.slp", Field: "killCount", Reason: "odd count"}, "malformed killCount in a.slp: odd count"},
		{"state", &PersistedStateError{Path: "/tmp/cutoff", Op: "parse", Err: base}, "cutoff state parse /tmp/cutoff: boom"},
		{"remote table", &RemoteStoreError{Table: "gamedata", Op: "copy", Err: base}, `remote store copy failed for table "gamedata": boom`},
		{"remote connect", &RemoteStoreError{Op: "connect", Err: base}, "remote store connect failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	stateErr := &PersistedStateError{Path: "x", Op: "read", Err: fs.ErrNotExist}
	assert.True(t, errors.Is(stateErr, fs.ErrNotExist))

	formatErr := &DataFormatError{Field: "lastFrame", Err: fs.ErrInvalid}
	assert.True(t, errors.Is(formatErr, fs.ErrInvalid))

	var target *RemoteStoreError
	wrapped := errors.Join(errors.New("outer"), &RemoteStoreError{Op: "commit", Err: fs.ErrClosed})
	assert.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "commit", target.Op)
}
