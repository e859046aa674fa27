// Package outwriter renders batch reports, win-rate tables and progress headers.
package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// dateTimeFormat is used for cutoffs and timestamps in headers.
const dateTimeFormat = "2006-01-02 15:04:05"

// headerPrefix returns the emoji prefix when emojis are enabled.
func headerPrefix(cfg *contract.Config, emoji string) string {
	if cfg.UseEmojis {
		return emoji + " "
	}
	return ""
}

// LogIngestHeader prints a concise, 2-line header for an ingest run to stderr.
func LogIngestHeader(cfg *contract.Config, cutoff time.Time, discovered, selected int) {
	rootName := filepath.Base(cfg.RootDir)
	if rootName == "" || rootName == "." {
		rootName = "current"
	}

	since := "beginning"
	if !cutoff.IsZero() {
		since = cutoff.Local().Format(dateTimeFormat)
	}

	_, _ = fmt.Fprintf(os.Stderr, "%sReplays: %s (%d found, %d new since %s)\n",
		headerPrefix(cfg, "🔎"), rootName, discovered, selected, since)
	_, _ = fmt.Fprintf(os.Stderr, "%sExtractor: %s (%d workers, cache: %s)\n",
		headerPrefix(cfg, "⚙️ "), cfg.ExtractorCommand, cfg.Workers, cfg.CacheBackend)
}

// LogStatsHeader prints a header for a stats run to stderr.
func LogStatsHeader(cfg *contract.Config, result *schema.StatsResult) {
	_, _ = fmt.Fprintf(os.Stderr, "%sPlayer: %s (%d matches, %d perspectives)\n",
		headerPrefix(cfg, "🎮"), result.Player, result.TotalMatches, result.Perspectives)
	_, _ = fmt.Fprintf(os.Stderr, "%sRules: win at %d stocks taken, %d frames per minute\n",
		headerPrefix(cfg, "📏"), cfg.StockWinThreshold, cfg.FramesPerMinute)
}

// PrintUploadSummary prints one line per uploaded table to stderr.
func PrintUploadSummary(results []schema.UploadResult, cfg *contract.Config) {
	for _, r := range results {
		_, _ = fmt.Fprintf(os.Stderr, "%sUploaded %d rows from %s into %s\n",
			headerPrefix(cfg, "☁️ "), r.Rows, filepath.Base(r.File), r.Table)
	}
}
