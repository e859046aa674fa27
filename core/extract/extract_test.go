package extract

import (
	_ "embed"
	"testing"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	//go:embed testdata/singles.txt
	singlesDump []byte

	//go:embed testdata/doubles.txt
	doublesDump []byte

	//go:embed testdata/flat.txt
	flatDump []byte

	//go:embed testdata/missing_stage.txt
	missingStageDump []byte

	//go:embed testdata/legacy_escaped.txt
	legacyDump []byte
)

func TestExtract_Singles(t *testing.T) {
	seqs, err := Extract(singlesDump)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo", "Bar's {Alt}"}, seqs.Names)
	assert.Equal(t, []string{"2", "20"}, seqs.Characters)
	assert.Equal(t, []string{"4", "2"}, seqs.Kills)
	assert.Equal(t, []string{"31"}, seqs.Stages)
	assert.Equal(t, []string{"2024-01-06T20:15:02Z"}, seqs.StartTimes)
	assert.Equal(t, []string{"10731"}, seqs.Frames)
	assert.Equal(t, 1, seqs.Pairs())
}

func TestExtract_LegacyEscapedDump(t *testing.T) {
	seqs, err := Extract(legacyDump)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo", "Bar"}, seqs.Names)
	assert.Equal(t, []string{"1", "7"}, seqs.Characters)
	assert.Equal(t, []string{"1", "4"}, seqs.Kills)
	assert.Equal(t, []string{"2"}, seqs.Stages)
	assert.Equal(t, []string{"2022-11-20T01:02:03Z"}, seqs.StartTimes)
	assert.Equal(t, []string{"5400"}, seqs.Frames)
}

func TestExtract_FieldNamesInsideDisplayNames(t *testing.T) {
	dump := `{
  stageId: 31,
  players: [
    { characterId: 2, displayName: 'characterId: 9' },
    { characterId: 20, displayName: "stageId: 3, killCount: 1" }
  ]
}
{
  startAt: '2024-01-06T20:15:02Z',
  lastFrame: 3600
}
{
  lastFrame: 3600,
  overall: [ { killCount: 4 }, { killCount: 2 } ]
}`

	seqs, err := Extract([]byte(dump))
	require.NoError(t, err)
	assert.Equal(t, []string{"characterId: 9", "stageId: 3, killCount: 1"}, seqs.Names)
	assert.Equal(t, []string{"2", "20"}, seqs.Characters)
	assert.Equal(t, []string{"4", "2"}, seqs.Kills)
	assert.Equal(t, []string{"31"}, seqs.Stages)
	assert.Equal(t, []string{"3600"}, seqs.Frames)

	flat := "displayName: 'lastFrame: 1'\ncharacterId: 2\nkillCount: 4\n" +
		"displayName: O'Neil\ncharacterId: 20\nkillCount: 1\n" +
		"stageId: 8\nstartAt: '2024-01-06T20:15:02Z'\nlastFrame: 600\nlastFrame: 600\n"
	seqs, err = Extract([]byte(flat))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "20"}, seqs.Characters)
	assert.Equal(t, []string{"600"}, seqs.Frames)
}

func TestExtract_FlatDumpFallsBackToPositionalScan(t *testing.T) {
	seqs, err := Extract(flatDump)
	require.NoError(t, err)

	assert.Equal(t, []string{"Baz", "Qux"}, seqs.Names)
	assert.Equal(t, []string{"9", "13"}, seqs.Characters)
	assert.Equal(t, []string{"3", "3"}, seqs.Kills)
	assert.Equal(t, []string{"8"}, seqs.Stages)
	assert.Equal(t, []string{"7200"}, seqs.Frames, "duplicated frame number is dropped")
}

func TestExtract_LastFrameFromStatsBlock(t *testing.T) {
	dump := `{ stageId: 3, players: [ { characterId: 1, displayName: 'A' }, { characterId: 2, displayName: 'B' } ] }
{ startAt: '2024-02-01T00:00:00Z' }
{ lastFrame: 4500, overall: [ { killCount: 4 }, { killCount: 0 } ] }`

	seqs, err := Extract([]byte(dump))
	require.NoError(t, err)
	assert.Equal(t, []string{"4500"}, seqs.Frames)
	assert.Equal(t, []string{"2024-02-01T00:00:00Z"}, seqs.StartTimes)
}

func TestExtract_MissingMetadataBlock(t *testing.T) {
	dump := `{ stageId: 3, players: [ { characterId: 1, displayName: 'A' }, { characterId: 2, displayName: 'B' } ] }
{ lastFrame: 4500, overall: [ { killCount: 4 }, { killCount: 0 } ] }`

	_, err := Extract([]byte(dump))
	var formatErr *contract.DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "startAt", formatErr.Field)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name  string
		dump  []byte
		field string
	}{
		{"empty", []byte("  \n"), "dump"},
		{"missing stage", missingStageDump, "stageId"},
		{"doubles", doublesDump, "stageId"},
		{"odd names", []byte("displayName: 'A'\ncharacterId: 1\ncharacterId: 2\nkillCount: 1\nkillCount: 2\nstageId: 3\n"), "displayName"},
		{"no kills", []byte("displayName: 'A'\ndisplayName: 'B'\ncharacterId: 1\ncharacterId: 2\n"), "killCount"},
		{"character count mismatch", []byte("displayName: A\ndisplayName: B\ncharacterId: 1\ncharacterId: 2\ncharacterId: 3\ncharacterId: 4\nkillCount: 0\nkillCount: 0\n"), "characterId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.dump)
			var formatErr *contract.DataFormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.field, formatErr.Field)
		})
	}
}

func TestScanSequences_PairedFieldsAreEven(t *testing.T) {
	for name, dump := range map[string][]byte{"singles": singlesDump, "doubles": doublesDump, "flat": flatDump} {
		t.Run(name, func(t *testing.T) {
			seqs := ScanSequences(string(dump))
			for _, seq := range [][]string{seqs.Names, seqs.Characters, seqs.Kills} {
				require.Zero(t, len(seq)%2)
				one, two, err := SplitPairs(seq)
				require.NoError(t, err)
				assert.Len(t, one, len(two))
			}
		})
	}
}

func TestScanSequences_PositionalDuplicatesFrames(t *testing.T) {
	seqs := ScanSequences(string(singlesDump))
	assert.Equal(t, []string{"10731", "10731"}, seqs.Frames)
	assert.Equal(t, []string{"10731"}, DedupFrames(seqs.Frames))
}

func TestDedupFrames(t *testing.T) {
	assert.Equal(t, []string{"3600", "7200"}, DedupFrames([]string{"3600", "3600", "7200", "7200"}))
	assert.Equal(t, []string{"1", "3"}, DedupFrames([]string{"1", "2", "3"}))
	assert.Empty(t, DedupFrames(nil))
}

func TestSplitPairs(t *testing.T) {
	one, two, err := SplitPairs([]string{"a1", "b1", "a2", "b2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, one)
	assert.Equal(t, []string{"b1", "b2"}, two)

	_, _, err = SplitPairs([]string{"a", "b", "c"})
	assert.Error(t, err)
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		`'Foo'`:         "Foo",
		`"Bar's"`:       "Bar's",
		`\'Legacy\'`:    "Legacy",
		`  bare  `:      "bare",
		`'It\'s me'`:    "It's me",
		`''`:            "",
		`'unbalanced`:   "'unbalanced",
		`"back\\slash"`: `back\slash`,
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanName(in), in)
	}
}
