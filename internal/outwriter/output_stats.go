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

// PrintStats outputs matchup and stage win rates, dispatching on the output format.
func PrintStats(result *schema.StatsResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsCSV(w, result, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeStatsParquet(result, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsTables(w, result, cfg, duration)
		}, "Wrote table")
	}
}

// writeStatsTables renders the matchup table followed by the stage table.
func writeStatsTables(w io.Writer, result *schema.StatsResult, cfg *contract.Config, duration time.Duration) error {
	_, fmtPct := createFormatters(cfg.Precision, "-")

	matchups := tablewriter.NewWriter(w)
	matchups.Header([]string{"Character", "Opponent", "W", "L", "D", "Win %", "Label"})
	matchups.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var matchupRows [][]string
	for _, m := range result.Matchups {
		matchupRows = append(matchupRows, []string{
			schema.CharacterName(m.SelfCharacterID),
			schema.CharacterName(m.OtherCharacterID),
			strconv.Itoa(m.Wins),
			strconv.Itoa(m.Losses),
			strconv.Itoa(m.Draws),
			fmtPct(m.WinPercentage),
			winLabel(cfg, m.WinPercentage),
		})
	}
	if err := matchups.Bulk(matchupRows); err != nil {
		return err
	}
	if err := matchups.Render(); err != nil {
		return err
	}

	stages := tablewriter.NewWriter(w)
	stages.Header([]string{"Stage", "W", "L", "D", "Win %", "Label"})
	stages.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var stageRows [][]string
	for _, s := range result.Stages {
		stageRows = append(stageRows, []string{
			schema.StageName(s.StageID),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Draws),
			fmtPct(s.WinPercentage),
			winLabel(cfg, s.WinPercentage),
		})
	}
	if err := stages.Bulk(stageRows); err != nil {
		return err
	}
	if err := stages.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d matchups and %d stages for %s from %d matches, computed in %v\n",
		len(result.Matchups), len(result.Stages), result.Player, result.TotalMatches, duration.Round(time.Millisecond))
	return err
}

// writeStatsCSV writes both tables into one CSV with a leading table column.
func writeStatsCSV(w io.Writer, result *schema.StatsResult, cfg *contract.Config) error {
	_, fmtPct := createFormatters(cfg.Precision, "")
	header := []string{"table", "self_character_id", "other_character_id", "stage_id", "wins", "losses", "draws", "win_percentage", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range result.Matchups {
			if err := cw.Write([]string{
				schema.MatchupResultsTable,
				strconv.Itoa(m.SelfCharacterID),
				strconv.Itoa(m.OtherCharacterID),
				"",
				strconv.Itoa(m.Wins),
				strconv.Itoa(m.Losses),
				strconv.Itoa(m.Draws),
				fmtPct(m.WinPercentage),
				contract.GetPlainLabel(m.WinPercentage),
			}); err != nil {
				return err
			}
		}
		for _, s := range result.Stages {
			if err := cw.Write([]string{
				schema.StageResultsTable,
				"",
				"",
				strconv.Itoa(s.StageID),
				strconv.Itoa(s.Wins),
				strconv.Itoa(s.Losses),
				strconv.Itoa(s.Draws),
				fmtPct(s.WinPercentage),
				contract.GetPlainLabel(s.WinPercentage),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeStatsParquet writes <outputFile>.matchups.parquet and <outputFile>.stages.parquet.
func writeStatsParquet(result *schema.StatsResult, outputFile string) error {
	matchupsFile := outputFile + ".matchups.parquet"
	if err := writeParquetFile(matchupsFile, parquet.ConvertMatchupStats(result.Player, result.Matchups)); err != nil {
		return fmt.Errorf("failed to write matchups: %w", err)
	}
	stagesFile := outputFile + ".stages.parquet"
	if err := writeParquetFile(stagesFile, parquet.ConvertStageStats(result.Player, result.Stages)); err != nil {
		return fmt.Errorf("failed to write stages: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s and %s\n", matchupsFile, stagesFile)
	return nil
}

func writeParquetFile[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := parquet.Write(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
