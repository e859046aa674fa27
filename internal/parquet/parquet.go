// Package parquet writes match records and win-rate tables as Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/slippistats/schema"
	"github.com/parquet-go/parquet-go"
)

// Match is one row of the gamedata table.
type Match struct {
	GameID string `parquet:"game_id,snappy"`

	PlayerOneName string `parquet:"player_one_name,snappy,dict"`
	PlayerTwoName string `parquet:"player_two_name,snappy,dict"`

	PlayerOneCharacterID int32 `parquet:"player_one_character_id,snappy"`
	PlayerTwoCharacterID int32 `parquet:"player_two_character_id,snappy"`
	PlayerOneStocksTaken int32 `parquet:"player_one_stocks_taken,snappy"`
	PlayerTwoStocksTaken int32 `parquet:"player_two_stocks_taken,snappy"`
	StageID              int32 `parquet:"stage_id,snappy"`

	// GameDate is kept as the ISO-8601 text the dump tool reports
	GameDate string `parquet:"game_date,snappy"`

	// GameLength is in minutes
	GameLength float64 `parquet:"game_length,snappy"`
}

// MatchupResult is the win rate for one character pairing.
type MatchupResult struct {
	Player           string `parquet:"player,snappy,dict"`
	SelfCharacterID  int32  `parquet:"self_character_id,snappy"`
	OtherCharacterID int32  `parquet:"other_character_id,snappy"`
	Wins             int32  `parquet:"wins,snappy"`
	Losses           int32  `parquet:"losses,snappy"`
	Draws            int32  `parquet:"draws,snappy"`

	// Percentage is null when no game was decisive
	Percentage *float64 `parquet:"percentage,optional,snappy"`
}

// StageResult is the win rate on one stage.
type StageResult struct {
	Player     string   `parquet:"player,snappy,dict"`
	StageID    int32    `parquet:"stage_id,snappy"`
	Wins       int32    `parquet:"wins,snappy"`
	Losses     int32    `parquet:"losses,snappy"`
	Draws      int32    `parquet:"draws,snappy"`
	Percentage *float64 `parquet:"percentage,optional,snappy"`
}

// Write encodes rows to w with the schema inferred from T's struct tags.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteMatchesParquet writes match rows to a Parquet file.
func WriteMatchesParquet(data []Match, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertMatchRecords converts schema.MatchRecord to Match for Parquet export.
func ConvertMatchRecords(records []schema.MatchRecord) []Match {
	result := make([]Match, len(records))
	for i, r := range records {
		result[i] = Match{
			GameID:               r.GameID,
			PlayerOneName:        r.PlayerOneName,
			PlayerTwoName:        r.PlayerTwoName,
			PlayerOneCharacterID: int32(r.PlayerOneCharacterID),
			PlayerTwoCharacterID: int32(r.PlayerTwoCharacterID),
			PlayerOneStocksTaken: int32(r.PlayerOneStocksTaken),
			PlayerTwoStocksTaken: int32(r.PlayerTwoStocksTaken),
			StageID:              int32(r.StageID),
			GameDate:             r.GameDate,
			GameLength:           r.GameLength,
		}
	}
	return result
}

// ConvertMatchupStats converts aggregated matchups for Parquet export.
func ConvertMatchupStats(player string, stats []schema.MatchupStat) []MatchupResult {
	result := make([]MatchupResult, len(stats))
	for i, s := range stats {
		result[i] = MatchupResult{
			Player:           player,
			SelfCharacterID:  int32(s.SelfCharacterID),
			OtherCharacterID: int32(s.OtherCharacterID),
			Wins:             int32(s.Wins),
			Losses:           int32(s.Losses),
			Draws:            int32(s.Draws),
			Percentage:       schema.PercentagePtr(s.WinPercentage),
		}
	}
	return result
}

// ConvertStageStats converts aggregated stages for Parquet export.
func ConvertStageStats(player string, stats []schema.StageStat) []StageResult {
	result := make([]StageResult, len(stats))
	for i, s := range stats {
		result[i] = StageResult{
			Player:     player,
			StageID:    int32(s.StageID),
			Wins:       int32(s.Wins),
			Losses:     int32(s.Losses),
			Draws:      int32(s.Draws),
			Percentage: schema.PercentagePtr(s.WinPercentage),
		}
	}
	return result
}
