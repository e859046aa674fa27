// Package agg has aggregation logic for match records.
package agg

import (
	"math"
	"sort"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// DetermineWinner decides a match from the stocks each side took.
// Equal counts are a draw, including when both sides reached the threshold.
// Otherwise a side at or over the threshold wins, and failing that the side
// with strictly more stocks wins.
func DetermineWinner(p1, p2, threshold int) schema.Winner {
	switch {
	case p1 == p2:
		return schema.Draw
	case p1 >= threshold && p2 < threshold:
		return schema.PlayerOne
	case p2 >= threshold && p1 < threshold:
		return schema.PlayerTwo
	case p1 > p2:
		return schema.PlayerOne
	default:
		return schema.PlayerTwo
	}
}

// outcomeFor maps a winner onto the outcome seen by the given side.
func outcomeFor(winner, side schema.Winner) schema.Outcome {
	switch winner {
	case schema.Draw:
		return schema.OutcomeNone
	case side:
		return schema.OutcomeSelf
	default:
		return schema.OutcomeOther
	}
}

// Perspectives reinterprets each record from the side(s) played by target.
// A record whose names both equal target yields two perspectives unless
// excludeSelfPlay is set, in which case it yields none.
func Perspectives(records []schema.MatchRecord, target string, threshold int, excludeSelfPlay bool) []schema.SelfPerspectiveRecord {
	var out []schema.SelfPerspectiveRecord
	for _, r := range records {
		isOne := r.PlayerOneName == target
		isTwo := r.PlayerTwoName == target
		if isOne && isTwo && excludeSelfPlay {
			continue
		}

		winner := DetermineWinner(r.PlayerOneStocksTaken, r.PlayerTwoStocksTaken, threshold)
		if isOne {
			out = append(out, schema.SelfPerspectiveRecord{
				SelfCharacterID:  r.PlayerOneCharacterID,
				OtherCharacterID: r.PlayerTwoCharacterID,
				StageID:          r.StageID,
				Outcome:          outcomeFor(winner, schema.PlayerOne),
			})
		}
		if isTwo {
			out = append(out, schema.SelfPerspectiveRecord{
				SelfCharacterID:  r.PlayerTwoCharacterID,
				OtherCharacterID: r.PlayerOneCharacterID,
				StageID:          r.StageID,
				Outcome:          outcomeFor(winner, schema.PlayerTwo),
			})
		}
	}
	return out
}

// tally counts outcomes for one group.
type tally struct {
	wins, losses, draws int
}

func (t *tally) add(o schema.Outcome) {
	switch o {
	case schema.OutcomeSelf:
		t.wins++
	case schema.OutcomeOther:
		t.losses++
	default:
		t.draws++
	}
}

func (t tally) percentage() float64 {
	decisive := t.wins + t.losses
	if decisive == 0 {
		return math.NaN()
	}
	return 100 * float64(t.wins) / float64(decisive)
}

// WinPercentage returns 100 * Self / (Self + Other). Draws are ignored and the
// result is NaN when there are no decisive outcomes.
func WinPercentage(outcomes []schema.Outcome) float64 {
	var t tally
	for _, o := range outcomes {
		t.add(o)
	}
	return t.percentage()
}

type matchupKey struct {
	self, other int
}

// MatchupStats groups perspectives by (self, other) character, sorted ascending.
func MatchupStats(perspectives []schema.SelfPerspectiveRecord) []schema.MatchupStat {
	groups := make(map[matchupKey]*tally)
	for _, p := range perspectives {
		key := matchupKey{p.SelfCharacterID, p.OtherCharacterID}
		if groups[key] == nil {
			groups[key] = &tally{}
		}
		groups[key].add(p.Outcome)
	}

	stats := make([]schema.MatchupStat, 0, len(groups))
	for key, t := range groups {
		stats = append(stats, schema.MatchupStat{
			SelfCharacterID:  key.self,
			OtherCharacterID: key.other,
			Wins:             t.wins,
			Losses:           t.losses,
			Draws:            t.draws,
			WinPercentage:    t.percentage(),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].SelfCharacterID != stats[j].SelfCharacterID {
			return stats[i].SelfCharacterID < stats[j].SelfCharacterID
		}
		return stats[i].OtherCharacterID < stats[j].OtherCharacterID
	})
	return stats
}

// StageStats groups perspectives by stage, sorted ascending.
func StageStats(perspectives []schema.SelfPerspectiveRecord) []schema.StageStat {
	groups := make(map[int]*tally)
	for _, p := range perspectives {
		if groups[p.StageID] == nil {
			groups[p.StageID] = &tally{}
		}
		groups[p.StageID].add(p.Outcome)
	}

	stats := make([]schema.StageStat, 0, len(groups))
	for stage, t := range groups {
		stats = append(stats, schema.StageStat{
			StageID:       stage,
			Wins:          t.wins,
			Losses:        t.losses,
			Draws:         t.draws,
			WinPercentage: t.percentage(),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].StageID < stats[j].StageID
	})
	return stats
}

// Summarize computes every aggregate for the configured target player.
func Summarize(cfg *contract.Config, records []schema.MatchRecord) schema.StatsResult {
	perspectives := Perspectives(records, cfg.TargetPlayer, cfg.StockWinThreshold, cfg.ExcludeSelfPlay)
	return schema.StatsResult{
		Player:       cfg.TargetPlayer,
		TotalMatches: len(records),
		Perspectives: len(perspectives),
		Matchups:     MatchupStats(perspectives),
		Stages:       StageStats(perspectives),
	}
}
