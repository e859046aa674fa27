package iocache

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
)

// FileCutoffStore keeps the incremental cutoff as seconds since the epoch in a text file.
type FileCutoffStore struct {
	Path string
}

var _ contract.CutoffStore = &FileCutoffStore{} // Compile-time check

// NewFileCutoffStore returns a cutoff store at path, or the default location when path is empty.
func NewFileCutoffStore(path string) *FileCutoffStore {
	if path == "" {
		path = contract.GetCutoffFilePath()
	}
	return &FileCutoffStore{Path: path}
}

// Load reads the cutoff. Fractional seconds are accepted and truncated to
// whole seconds. Any failure returns the zero time with a *PersistedStateError.
func (s *FileCutoffStore) Load() (time.Time, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return time.Time{}, &contract.PersistedStateError{Path: s.Path, Op: "read", Err: err}
	}

	text := strings.TrimSpace(string(data))
	secs, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return time.Time{}, &contract.PersistedStateError{Path: s.Path, Op: "parse", Err: err}
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return time.Time{}, &contract.PersistedStateError{Path: s.Path, Op: "parse", Err: fmt.Errorf("invalid timestamp %q", text)}
	}
	return time.Unix(int64(secs), 0), nil
}

// Save writes t as integer seconds, replacing the previous file atomically.
func (s *FileCutoffStore) Save(t time.Time) error {
	wrap := func(err error) error {
		return &contract.PersistedStateError{Path: s.Path, Op: "write", Err: err}
	}
	if t.Before(time.Unix(0, 0)) {
		return wrap(errors.New("cutoff cannot precede the epoch"))
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return wrap(err)
	}
	tmp, err := os.CreateTemp(dir, ".cutoff-*")
	if err != nil {
		return wrap(err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(strconv.FormatInt(t.Unix(), 10)); err != nil {
		_ = tmp.Close()
		return wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return wrap(err)
	}
	return nil
}
