// Package assemble turns extracted field sequences into match records.
package assemble

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/slippistats/core/extract"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// GameID derives a record identifier from a replay path: the path relative to
// root with its extension removed, using forward slashes.
func GameID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = path
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel)
}

// GameLength converts a frame count into minutes rounded to 3 decimals.
func GameLength(lastFrame, framesPerMinute int) float64 {
	minutes := float64(lastFrame) / float64(framesPerMinute)
	return math.Round(minutes*1000) / 1000
}

// RecordBuilder assembles one MatchRecord from the sequences of one dump.
// Each step is skipped once an earlier step failed; Build reports the first error.
type RecordBuilder struct {
	cfg    *contract.Config
	path   string
	seqs   extract.Sequences
	record schema.MatchRecord
	err    error
}

// NewRecordBuilder is the starting point for building a record.
func NewRecordBuilder(cfg *contract.Config, path string, seqs extract.Sequences) *RecordBuilder {
	return &RecordBuilder{
		cfg:  cfg,
		path: path,
		seqs: seqs,
	}
}

// PairPlayers splits the interleaved player fields and copies the single pair
// into the record. Dumps holding more than one pair are rejected.
func (b *RecordBuilder) PairPlayers() *RecordBuilder {
	if b.err != nil {
		return b
	}

	ones, twos, err := extract.SplitPairs(b.seqs.Names)
	if err != nil {
		return b.fail("displayName", err.Error())
	}
	if len(ones) != 1 {
		return b.fail("displayName", fmt.Sprintf("found %d player pairs, expected exactly one match", len(ones)))
	}
	b.record.PlayerOneName, b.record.PlayerTwoName = ones[0], twos[0]

	b.record.PlayerOneCharacterID, b.record.PlayerTwoCharacterID = b.pairedInt("characterId", b.seqs.Characters)
	b.record.PlayerOneStocksTaken, b.record.PlayerTwoStocksTaken = b.pairedInt("killCount", b.seqs.Kills)
	return b
}

// MatchFields fills the per-match fields: identifier, stage, date and length.
func (b *RecordBuilder) MatchFields() *RecordBuilder {
	if b.err != nil {
		return b
	}

	b.record.GameID = GameID(b.cfg.RootDir, b.path)
	b.record.StageID = b.singleInt("stageId", b.seqs.Stages)

	if start := b.single("startAt", b.seqs.StartTimes); b.err == nil {
		if strings.TrimSpace(start) == "" {
			return b.fail("startAt", "empty start time")
		}
		b.record.GameDate = start
	}

	lastFrame := b.singleInt("lastFrame", b.seqs.Frames)
	if b.err == nil {
		b.record.GameLength = GameLength(lastFrame, b.cfg.FramesPerMinute)
	}
	return b
}

// Build returns the assembled record or the first error encountered.
func (b *RecordBuilder) Build() (schema.MatchRecord, error) {
	if b.err != nil {
		return schema.MatchRecord{}, b.err
	}
	return b.record, nil
}

// Assemble runs every build step for one dump.
func Assemble(cfg *contract.Config, path string, seqs extract.Sequences) (schema.MatchRecord, error) {
	return NewRecordBuilder(cfg, path, seqs).PairPlayers().MatchFields().Build()
}

func (b *RecordBuilder) fail(field, reason string) *RecordBuilder {
	if b.err == nil {
		b.err = &contract.DataFormatError{Path: b.path, Field: field, Reason: reason}
	}
	return b
}

func (b *RecordBuilder) pairedInt(field string, seq []string) (int, int) {
	if b.err != nil {
		return 0, 0
	}
	ones, twos, err := extract.SplitPairs(seq)
	if err != nil {
		b.fail(field, err.Error())
		return 0, 0
	}
	if len(ones) != 1 {
		b.fail(field, fmt.Sprintf("found %d pairs, expected exactly one", len(ones)))
		return 0, 0
	}
	return b.toInt(field, ones[0]), b.toInt(field, twos[0])
}

func (b *RecordBuilder) single(field string, seq []string) string {
	if b.err != nil {
		return ""
	}
	if len(seq) != 1 {
		b.fail(field, fmt.Sprintf("found %d values, expected exactly one", len(seq)))
		return ""
	}
	return seq[0]
}

func (b *RecordBuilder) singleInt(field string, seq []string) int {
	v := b.single(field, seq)
	if b.err != nil {
		return 0
	}
	return b.toInt(field, v)
}

func (b *RecordBuilder) toInt(field, s string) int {
	if b.err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		b.fail(field, fmt.Sprintf("%q is not an integer", s))
		return 0
	}
	return n
}
