package contract

import (
	"crypto/sha256"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Win rate label constants.
const (
	FavoredValue   = "Favored"   // Winning clearly
	EvenValue      = "Even"      // Close to a coin flip
	UnfavoredValue = "Unfavored" // Losing clearly
	UnknownValue   = "Unknown"   // No decisive games
)

// Color variables for console output.
var (
	FavoredColor   = color.New(color.FgGreen, color.Bold)
	EvenColor      = color.New(color.FgYellow)
	UnfavoredColor = color.New(color.FgRed, color.Bold)
	UnknownColor   = color.New(color.FgHiBlack)
)

// GetPlainLabel returns a plain text label for a win percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(pct float64) string {
	switch {
	case math.IsNaN(pct):
		return UnknownValue
	case pct >= 60:
		return FavoredValue
	case pct > 40:
		return EvenValue
	default:
		return UnfavoredValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(pct float64) string {
	text := GetPlainLabel(pct)

	switch text {
	case FavoredValue:
		return FavoredColor.Sprint(text)
	case EvenValue:
		return EvenColor.Sprint(text)
	case UnfavoredValue:
		return UnfavoredColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// Patterns with wildcard characters (*, ?, [ ]) use filepath.Match against the path
// and its base name. Patterns ending with '/' match as a directory segment.
// Anything else is a substring match.
func ShouldIgnore(path string, excludes []string) bool {
	slashed := filepath.ToSlash(path)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, slashed); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(pat, filepath.Base(slashed)); err == nil && ok {
				return true
			}
			continue
		}

		if strings.HasSuffix(ex, "/") {
			if strings.HasPrefix(slashed, ex) || strings.Contains(slashed, "/"+ex) {
				return true
			}
			continue
		}
		if strings.Contains(slashed, ex) {
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// homeFile returns name inside the user's home directory, or name itself if
// the home directory cannot be determined.
func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the match store.
func GetStoreDBFilePath() string {
	return homeFile(".slippistats_matches.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the dump cache.
func GetCacheDBFilePath() string {
	return homeFile(".slippistats_cache.db")
}

// GetCutoffFilePath returns the default location of the incremental cutoff state.
func GetCutoffFilePath() string {
	return homeFile(".slippistats_cutoff")
}

// GetRootCutoffFilePath returns the cutoff state file for one replay root.
// Roots are keyed by a hash of their cleaned path so each keeps its own cutoff.
func GetRootCutoffFilePath(root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return homeFile(fmt.Sprintf(".slippistats_cutoff_%x", sum[:6]))
}

// TruncatePath truncates a path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the "..." prefix and some content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
