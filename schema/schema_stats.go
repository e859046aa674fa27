package schema

import (
	"encoding/json"
	"math"
)

// MatchupStat is the win rate for one (self character, other character) pair.
// WinPercentage is NaN when the group has no decisive games.
type MatchupStat struct {
	SelfCharacterID  int     `json:"self_character_id"`
	OtherCharacterID int     `json:"other_character_id"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Draws            int     `json:"draws"`
	WinPercentage    float64 `json:"-"`
}

// StageStat is the win rate on one stage.
// WinPercentage is NaN when the group has no decisive games.
type StageStat struct {
	StageID       int     `json:"stage_id"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	WinPercentage float64 `json:"-"`
}

// StatsResult bundles the aggregates computed for one target player.
type StatsResult struct {
	Player       string        `json:"player"`
	TotalMatches int           `json:"total_matches"`
	Perspectives int           `json:"perspectives"`
	Matchups     []MatchupStat `json:"matchups"`
	Stages       []StageStat   `json:"stages"`
}

// PercentagePtr returns nil for an undefined percentage so encoders emit null.
func PercentagePtr(pct float64) *float64 {
	if math.IsNaN(pct) {
		return nil
	}
	return &pct
}

// MarshalJSON encodes WinPercentage as a number or null.
func (m MatchupStat) MarshalJSON() ([]byte, error) {
	type alias MatchupStat
	return json.Marshal(struct {
		alias
		WinPercentage *float64 `json:"win_percentage"`
	}{alias(m), PercentagePtr(m.WinPercentage)})
}

// MarshalJSON encodes WinPercentage as a number or null.
func (s StageStat) MarshalJSON() ([]byte, error) {
	type alias StageStat
	return json.Marshal(struct {
		alias
		WinPercentage *float64 `json:"win_percentage"`
	}{alias(s), PercentagePtr(s.WinPercentage)})
}
