package assemble

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/huangsam/slippistats/core/extract"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(root string) *contract.Config {
	return &contract.Config{RootDir: root, FramesPerMinute: contract.DefaultFramesPerMinute}
}

func validSequences() extract.Sequences {
	return extract.Sequences{
		Names:      []string{"Foo", "Bar"},
		Characters: []string{"2", "20"},
		Kills:      []string{"4", "2"},
		Stages:     []string{"31"},
		StartTimes: []string{"2024-01-06T20:15:02Z"},
		Frames:     []string{"10731"},
	}
}

func TestGameID(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"nested", "/data/replays", "/data/replays/2024/match1.slp", "2024/match1"},
		{"top level", "/data/replays", "/data/replays/Game_20240106T201502.slp", "Game_20240106T201502"},
		{"trailing slash root", "/data/replays/", "/data/replays/a/b.slp", "a/b"},
		{"outside root", "/data/replays", "/other/x.slp", "/other/x"},
		{"dots in name", "/r", "/r/Game.v2.slp", "Game.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GameID(filepath.FromSlash(tt.root), filepath.FromSlash(tt.path)))
		})
	}
}

func TestGameLength(t *testing.T) {
	assert.Equal(t, 1.0, GameLength(3600, 3600))
	assert.Equal(t, 2.0, GameLength(7200, 3600))
	assert.Equal(t, 2.981, GameLength(10731, 3600))
	assert.Equal(t, 0.0, GameLength(0, 3600))
}

func TestGameLength_DedupedFrames(t *testing.T) {
	frames := extract.DedupFrames([]string{"3600", "3600", "7200", "7200"})
	lengths := make([]float64, 0, len(frames))
	for _, f := range frames {
		n, err := strconv.Atoi(f)
		require.NoError(t, err)
		lengths = append(lengths, GameLength(n, 3600))
	}
	assert.Equal(t, []float64{1.0, 2.0}, lengths)
}

func TestAssemble(t *testing.T) {
	root := filepath.FromSlash("/data/replays")
	path := filepath.Join(root, "2024", "Game_1.slp")

	record, err := Assemble(testConfig(root), path, validSequences())
	require.NoError(t, err)

	assert.Equal(t, "2024/Game_1", record.GameID)
	assert.Equal(t, "Foo", record.PlayerOneName)
	assert.Equal(t, "Bar", record.PlayerTwoName)
	assert.Equal(t, 2, record.PlayerOneCharacterID)
	assert.Equal(t, 20, record.PlayerTwoCharacterID)
	assert.Equal(t, 4, record.PlayerOneStocksTaken)
	assert.Equal(t, 2, record.PlayerTwoStocksTaken)
	assert.Equal(t, 31, record.StageID)
	assert.Equal(t, "2024-01-06T20:15:02Z", record.GameDate)
	assert.Equal(t, 2.981, record.GameLength)
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*extract.Sequences)
		field  string
	}{
		{"odd names", func(s *extract.Sequences) { s.Names = []string{"Foo"} }, "displayName"},
		{"two matches", func(s *extract.Sequences) {
			s.Names = []string{"A", "B", "C", "D"}
		}, "displayName"},
		{"non-integer character", func(s *extract.Sequences) { s.Characters = []string{"fox", "20"} }, "characterId"},
		{"kill pairs mismatch", func(s *extract.Sequences) { s.Kills = []string{"1", "2", "3", "4"} }, "killCount"},
		{"missing stage", func(s *extract.Sequences) { s.Stages = nil }, "stageId"},
		{"blank start", func(s *extract.Sequences) { s.StartTimes = []string{"  "} }, "startAt"},
		{"two frames", func(s *extract.Sequences) { s.Frames = []string{"1", "2"} }, "lastFrame"},
		{"bad frame", func(s *extract.Sequences) { s.Frames = []string{"12x"} }, "lastFrame"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs := validSequences()
			tt.mutate(&seqs)

			_, err := Assemble(testConfig("/r"), "/r/x.slp", seqs)
			var formatErr *contract.DataFormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.field, formatErr.Field)
			assert.Equal(t, "/r/x.slp", formatErr.Path)
		})
	}
}

func TestRecordBuilder_FirstErrorWins(t *testing.T) {
	seqs := validSequences()
	seqs.Characters = []string{"x", "y"}
	seqs.Stages = nil

	_, err := NewRecordBuilder(testConfig("/r"), "/r/x.slp", seqs).PairPlayers().MatchFields().Build()
	var formatErr *contract.DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "characterId", formatErr.Field)
}
