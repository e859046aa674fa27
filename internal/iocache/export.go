package iocache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/parquet"
	"github.com/huangsam/slippistats/schema"
)

// Export table headers.
var (
	gameDataHeader = []string{
		"GameID", "PlayerOneName", "PlayerTwoName",
		"PlayerOneCharacterID", "PlayerTwoCharacterID",
		"PlayerOneStocksTaken", "PlayerTwoStocksTaken",
		"StageID", "GameDate", "GameLength",
	}
	matchupResultsHeader = []string{"SelfCharacterID", "OtherCharacterID", "Percentage"}
	stageResultsHeader   = []string{"StageID", "Percentage"}
)

// formatPercentage renders a win percentage at full precision. NaN is an empty cell.
func formatPercentage(pct float64) string {
	if math.IsNaN(pct) {
		return ""
	}
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

// WriteGameDataCSV writes the gamedata table with its header row.
func WriteGameDataCSV(w io.Writer, records []schema.MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(gameDataHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{
			r.GameID, r.PlayerOneName, r.PlayerTwoName,
			strconv.Itoa(r.PlayerOneCharacterID), strconv.Itoa(r.PlayerTwoCharacterID),
			strconv.Itoa(r.PlayerOneStocksTaken), strconv.Itoa(r.PlayerTwoStocksTaken),
			strconv.Itoa(r.StageID), r.GameDate,
			strconv.FormatFloat(r.GameLength, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMatchupResultsCSV writes one row per character matchup.
func WriteMatchupResultsCSV(w io.Writer, stats []schema.MatchupStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchupResultsHeader); err != nil {
		return err
	}
	for _, s := range stats {
		if err := cw.Write([]string{
			strconv.Itoa(s.SelfCharacterID),
			strconv.Itoa(s.OtherCharacterID),
			formatPercentage(s.WinPercentage),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStageResultsCSV writes one row per stage.
func WriteStageResultsCSV(w io.Writer, stats []schema.StageStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stageResultsHeader); err != nil {
		return err
	}
	for _, s := range stats {
		if err := cw.Write([]string{strconv.Itoa(s.StageID), formatPercentage(s.WinPercentage)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadGameDataCSV parses a GameData.csv export back into match records.
func ReadGameDataCSV(path string) ([]schema.MatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(gameDataHeader)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	records := make([]schema.MatchRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		r, err := parseGameDataRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func parseGameDataRow(row []string) (schema.MatchRecord, error) {
	r := schema.MatchRecord{
		GameID:        row[0],
		PlayerOneName: row[1],
		PlayerTwoName: row[2],
		GameDate:      row[8],
	}
	ints := []struct {
		dst *int
		raw string
	}{
		{&r.PlayerOneCharacterID, row[3]},
		{&r.PlayerTwoCharacterID, row[4]},
		{&r.PlayerOneStocksTaken, row[5]},
		{&r.PlayerTwoStocksTaken, row[6]},
		{&r.StageID, row[7]},
	}
	var errs []error
	for _, f := range ints {
		v, err := strconv.Atoi(f.raw)
		errs = append(errs, err)
		*f.dst = v
	}
	length, err := strconv.ParseFloat(row[9], 64)
	errs = append(errs, err)
	r.GameLength = length
	return r, errors.Join(errs...)
}

// MergeMatches upserts next into previous by game id and returns the result sorted by game id.
func MergeMatches(previous, next []schema.MatchRecord) []schema.MatchRecord {
	byID := make(map[string]schema.MatchRecord, len(previous)+len(next))
	for _, r := range previous {
		byID[r.GameID] = r
	}
	for _, r := range next {
		byID[r.GameID] = r
	}
	merged := make([]schema.MatchRecord, 0, len(byID))
	for _, r := range byID {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].GameID < merged[j].GameID })
	return merged
}

// writeFile creates path inside dir and fills it with write.
func writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// ExportGameData writes GameData.csv into dir and returns its path.
func ExportGameData(dir string, records []schema.MatchRecord) (string, error) {
	return writeFile(dir, schema.GameDataFile, func(w io.Writer) error {
		return WriteGameDataCSV(w, records)
	})
}

// ExportStats writes MatchupResults.csv and StageResults.csv into dir.
func ExportStats(dir string, result *schema.StatsResult) ([]string, error) {
	matchups, err := writeFile(dir, schema.MatchupResultsFile, func(w io.Writer) error {
		return WriteMatchupResultsCSV(w, result.Matchups)
	})
	if err != nil {
		return nil, err
	}
	stages, err := writeFile(dir, schema.StageResultsFile, func(w io.Writer) error {
		return WriteStageResultsCSV(w, result.Stages)
	})
	if err != nil {
		return []string{matchups}, err
	}
	return []string{matchups, stages}, nil
}

// ExportStoreParquet writes every stored match to a Parquet file.
func ExportStoreParquet(w io.Writer, store contract.MatchStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalMatches == 0 {
		return errors.New("no matches found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting matches from %s backend...\n", status.Backend)

	records, err := store.AllMatches()
	if err != nil {
		return fmt.Errorf("failed to retrieve matches: %w", err)
	}
	if err := parquet.WriteMatchesParquet(parquet.ConvertMatchRecords(records), outputFile); err != nil {
		return fmt.Errorf("failed to write matches: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d matches to: %s\n", len(records), outputFile)
	return nil
}
