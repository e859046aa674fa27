//go:build integration || database

// Package integration contains end-to-end tests for the slippistats binary.
// These tests are excluded from normal test runs due to build tags.
// To run them: go test -tags integration ./integration
// Database backends: go test -tags database ./integration (requires Docker)
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a slippistats binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the slippistats binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "slippistats-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "slippistats")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build slippistats: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// fixtureMatch describes one replay written by writeReplayRoot.
type fixtureMatch struct {
	name           string
	p1, p2         string
	c1, c2         int
	kills1, kills2 int
	stage          int
}

// fixtureMatches has three matches for Foo: a Fox-Falco win, a Fox-Falco loss
// and a Marth draw against Baz.
var fixtureMatches = []fixtureMatch{
	{"2024/g1.slp", "Foo", "Bar", 2, 20, 4, 1, 31},
	{"2024/g2.slp", "Bar", "Foo", 20, 2, 4, 2, 31},
	{"g3.slp", "Foo", "Baz", 9, 2, 2, 2, 32},
}

// dumpText renders a match in the extractor's object-literal format.
func dumpText(m fixtureMatch) string {
	return fmt.Sprintf(`{
  stageId: %d,
  players: [
    { playerIndex: 0, characterId: %d, displayName: '%s' },
    { playerIndex: 1, characterId: %d, displayName: '%s' }
  ]
}
{
  startAt: '2024-01-06T20:15:02Z',
  lastFrame: 7200
}
{
  lastFrame: 7200,
  overall: [ { playerIndex: 0, killCount: %d }, { playerIndex: 1, killCount: %d } ]
}
`, m.stage, m.c1, m.p1, m.c2, m.p2, m.kills1, m.kills2)
}

// writeReplayRoot creates a replay folder whose files already hold their dump,
// so "cat" can stand in for the extractor.
func writeReplayRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	old := time.Now().Add(-time.Hour)
	for _, m := range fixtureMatches {
		path := filepath.Join(root, filepath.FromSlash(m.name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(dumpText(m)), 0o644))
		require.NoError(t, os.Chtimes(path, old, old))
	}
	return root
}

// runCommand runs the binary with env appended to the process environment and
// returns its combined output.
func runCommand(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// pipelineArgs are the flags every pipeline run shares.
func pipelineArgs(workDir string) []string {
	return []string{
		"--extractor-cmd", "cat",
		"--export-dir", filepath.Join(workDir, "export"),
		"--state-file", filepath.Join(workDir, "cutoff"),
		"--color", "no",
	}
}

// readLines returns the non-empty lines of a file.
func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var lines []string
	for line := range strings.SplitSeq(strings.TrimSpace(string(data)), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
