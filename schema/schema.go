// Package schema has models and constants shared by all parts of slippistats.
package schema

import "time"

// MatchRecord is one processed replay file.
// Field names mirror the columns of the gamedata table.
type MatchRecord struct {
	GameID               string  `json:"game_id"`
	PlayerOneName        string  `json:"player_one_name"`
	PlayerTwoName        string  `json:"player_two_name"`
	PlayerOneCharacterID int     `json:"player_one_character_id"`
	PlayerTwoCharacterID int     `json:"player_two_character_id"`
	PlayerOneStocksTaken int     `json:"player_one_stocks_taken"`
	PlayerTwoStocksTaken int     `json:"player_two_stocks_taken"`
	StageID              int     `json:"stage_id"`
	GameDate             string  `json:"game_date"`
	GameLength           float64 `json:"game_length"` // Minutes, rounded to 3 decimals
}

// SelfPerspectiveRecord is a MatchRecord seen from the target player's side.
type SelfPerspectiveRecord struct {
	SelfCharacterID  int     `json:"self_character_id"`
	OtherCharacterID int     `json:"other_character_id"`
	StageID          int     `json:"stage_id"`
	Outcome          Outcome `json:"outcome"`
}

// Candidate is a replay file found on disk.
type Candidate struct {
	Path    string
	ModTime time.Time
	Size    int64
}
