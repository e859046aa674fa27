package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCutoffStore_Load(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		want    time.Time
		wantOp  string
	}{
		{"integer seconds", "1700000000", false, time.Unix(1700000000, 0), ""},
		{"fractional seconds", "1700000000.75\n", false, time.Unix(1700000000, 0), ""},
		{"missing file", "", true, time.Time{}, "read"},
		{"garbled", "yesterday", false, time.Time{}, "parse"},
		{"empty", "", false, time.Time{}, "parse"},
		{"negative", "-5", false, time.Time{}, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cutoff")
			if !tt.missing {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			got, err := NewFileCutoffStore(path).Load()
			assert.True(t, tt.want.Equal(got), "got %v", got)
			if tt.wantOp == "" {
				assert.NoError(t, err)
				return
			}
			var stateErr *contract.PersistedStateError
			require.ErrorAs(t, err, &stateErr)
			assert.Equal(t, tt.wantOp, stateErr.Op)
			assert.Equal(t, path, stateErr.Path)
		})
	}
}

func TestFileCutoffStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cutoff")
	store := NewFileCutoffStore(path)
	now := time.Unix(1712345678, 900_000_000)

	require.NoError(t, store.Save(now))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1712345678", string(data))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1712345678), got.Unix())
}

func TestFileCutoffStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewFileCutoffStore(filepath.Join(blocker, "cutoff")).Save(time.Now())
	var stateErr *contract.PersistedStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "write", stateErr.Op)
}

func TestNewFileCutoffStore_Default(t *testing.T) {
	assert.Equal(t, contract.GetCutoffFilePath(), NewFileCutoffStore("").Path)
}
