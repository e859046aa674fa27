package contract

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "no decisive games",
			input:    math.NaN(),
			expected: UnknownValue,
		},
		{
			name:     "never won",
			input:    0.0,
			expected: UnfavoredValue,
		},
		{
			name:     "exactly forty",
			input:    40.0,
			expected: UnfavoredValue,
		},
		{
			name:     "just above forty",
			input:    40.1,
			expected: EvenValue,
		},
		{
			name:     "just before sixty",
			input:    59.9,
			expected: EvenValue,
		},
		{
			name:     "exactly sixty",
			input:    60.0,
			expected: FavoredValue,
		},
		{
			name:     "always won",
			input:    100.0,
			expected: FavoredValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		label string
	}{
		{"unfavored", 30, UnfavoredValue},
		{"even", 50, EvenValue},
		{"favored", 70, FavoredValue},
		{"unknown", math.NaN(), UnknownValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.pct)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{
			name:       "empty excludes",
			path:       "netplay/Game_1.slp",
			excludes:   []string{},
			wantIgnore: false,
		},
		{
			name:       "directory prefix",
			path:       "old/Game_1.slp",
			excludes:   []string{"old/"},
			wantIgnore: true,
		},
		{
			name:       "nested directory segment",
			path:       "netplay/old/Game_1.slp",
			excludes:   []string{"old/"},
			wantIgnore: true,
		},
		{
			name:       "directory suffix does not match file names",
			path:       "netplay/bold.slp",
			excludes:   []string{"old/"},
			wantIgnore: false,
		},
		{
			name:       "glob on base name",
			path:       "netplay/Game_1.partial.slp",
			excludes:   []string{"*.partial.slp"},
			wantIgnore: true,
		},
		{
			name:       "substring",
			path:       "ranked/2024/Game_1.slp",
			excludes:   []string{"2024"},
			wantIgnore: true,
		},
		{
			name:       "blank patterns are skipped",
			path:       "Game_1.slp",
			excludes:   []string{"", "   "},
			wantIgnore: false,
		},
		{
			name:       "malformed glob never matches",
			path:       "[x]/Game_1.slp",
			excludes:   []string{"[unterminated"},
			wantIgnore: false,
		},
		{
			name:       "multiple excludes with match",
			path:       "unranked/Game_1.slp",
			excludes:   []string{"old/", "unranked/", "*.tmp"},
			wantIgnore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIgnore, ShouldIgnore(tt.path, tt.excludes))
		})
	}
}

func TestHomeFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		base string
	}{
		{"store", GetStoreDBFilePath(), ".slippistats_matches.db"},
		{"cache", GetCacheDBFilePath(), ".slippistats_cache.db"},
		{"cutoff", GetCutoffFilePath(), ".slippistats_cutoff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.base, filepath.Base(tt.path))
			assert.True(t, strings.HasPrefix(tt.path, homeDir), "path %s should start with home dir %s", tt.path, homeDir)
		})
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		width    int
		expected string
	}{
		{"fits", "Game_1.slp", 20, "Game_1.slp"},
		{"truncated", "netplay/2024/Game_1.slp", 13, "...Game_1.slp"},
		{"tiny width untouched", "netplay/Game_1.slp", 3, "netplay/Game_1.slp"},
		{"multibyte", "リプレイ/試合.slp", 9, "...試合.slp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.width)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestGetRootCutoffFilePath(t *testing.T) {
	a := GetRootCutoffFilePath("/data/replays/a")
	b := GetRootCutoffFilePath("/data/replays/b")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, GetRootCutoffFilePath("/data/replays/a/"))
	assert.Equal(t, filepath.Dir(GetCutoffFilePath()), filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), ".slippistats_cutoff_"))
}
