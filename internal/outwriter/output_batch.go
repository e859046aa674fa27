package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/parquet"
	"github.com/huangsam/slippistats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxErrorWidth bounds the error column of the batch table.
const maxErrorWidth = 48

// PrintBatchReport outputs the per-file results of an ingest, dispatching on the output format.
func PrintBatchReport(report *schema.BatchReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchCSV(w, report)
		}, "Wrote CSV")
	case schema.ParquetOut:
		rows := parquet.ConvertMatchRecords(report.Records())
		if err := parquet.WriteMatchesParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d matches to %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, report, cfg)
		}, "Wrote table")
	}
}

// PrintBatchSummary prints a one-line summary of an ingest to stderr.
func PrintBatchSummary(report *schema.BatchReport, cfg *contract.Config) {
	_, _ = fmt.Fprintln(os.Stderr, headerPrefix(cfg, "📦")+batchSummary(report))
}

func batchSummary(report *schema.BatchReport) string {
	cached := 0
	for _, r := range report.Results {
		if r.Cached {
			cached++
		}
	}
	return fmt.Sprintf("Processed %d of %d replays (%d cached, %d tool errors, %d format errors) in %v",
		report.Count(schema.StatusProcessed), len(report.Results), cached,
		report.Count(schema.StatusToolError), report.Count(schema.StatusFormatError),
		report.Duration.Round(time.Millisecond))
}

// writeBatchTable generates and writes the human-readable table.
func writeBatchTable(w io.Writer, report *schema.BatchReport, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Replay", "Status", "Cached", "Time", "Error"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i, r := range report.Results {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(displayPath(r), pathWidth),
			string(r.Status),
			strconv.FormatBool(r.Cached),
			r.Duration.Round(time.Millisecond).String(),
			truncateEnd(r.Error, maxErrorWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, batchSummary(report))
	return err
}

// writeBatchCSV writes one row per replay.
func writeBatchCSV(w io.Writer, report *schema.BatchReport) error {
	header := []string{"path", "status", "cached", "duration_ms", "game_id", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range report.Results {
			gameID := ""
			if r.Record != nil {
				gameID = r.Record.GameID
			}
			if err := cw.Write([]string{
				r.Path,
				string(r.Status),
				strconv.FormatBool(r.Cached),
				strconv.FormatInt(r.Duration.Milliseconds(), 10),
				gameID,
				r.Error,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// displayPath prefers the game id of a processed replay over its full path.
func displayPath(r schema.FileResult) string {
	if r.Record != nil {
		return r.Record.GameID
	}
	return r.Path
}

// truncateEnd shortens s to width runes with a trailing ellipsis.
func truncateEnd(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width || width <= 3 {
		return s
	}
	return string(runes[:width-3]) + "..."
}
