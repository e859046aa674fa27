package iocache

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/slippistats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGameDataCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGameDataCSV(&buf, sampleMatches()[:1]))

	want := "GameID,PlayerOneName,PlayerTwoName,PlayerOneCharacterID,PlayerTwoCharacterID,PlayerOneStocksTaken,PlayerTwoStocksTaken,StageID,GameDate,GameLength\n" +
		"2024/Game_2,Mango,Zain,20,9,4,2,31,2024-03-02T18:10:00Z,3.5\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteGameDataCSV_QuotesNames(t *testing.T) {
	record := sampleMatches()[0]
	record.PlayerOneName = `Dr, "Peach"`

	var buf bytes.Buffer
	require.NoError(t, WriteGameDataCSV(&buf, []schema.MatchRecord{record}))
	assert.Contains(t, buf.String(), `"Dr, ""Peach"""`)
}

func TestWriteResultsCSV(t *testing.T) {
	t.Run("matchups", func(t *testing.T) {
		var buf bytes.Buffer
		stats := []schema.MatchupStat{
			{SelfCharacterID: 2, OtherCharacterID: 9, WinPercentage: 62.5},
			{SelfCharacterID: 2, OtherCharacterID: 20, WinPercentage: math.NaN()},
			{SelfCharacterID: 9, OtherCharacterID: 9, WinPercentage: 100.0 / 3},
		}
		require.NoError(t, WriteMatchupResultsCSV(&buf, stats))
		assert.Equal(t, "SelfCharacterID,OtherCharacterID,Percentage\n2,9,62.5\n2,20,\n9,9,33.333333333333336\n", buf.String())
	})

	t.Run("stages", func(t *testing.T) {
		var buf bytes.Buffer
		stats := []schema.StageStat{{StageID: 2, WinPercentage: 0}, {StageID: 31, WinPercentage: math.NaN()}}
		require.NoError(t, WriteStageResultsCSV(&buf, stats))
		assert.Equal(t, "StageID,Percentage\n2,0\n31,\n", buf.String())
	})
}

func TestExportAndReadGameData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := ExportGameData(dir, sampleMatches())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, schema.GameDataFile), path)

	records, err := ReadGameDataCSV(path)
	require.NoError(t, err)
	assert.Equal(t, sampleMatches(), records)
}

func TestReadGameDataCSV_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadGameDataCSV(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.csv")
	content := "GameID,PlayerOneName,PlayerTwoName,PlayerOneCharacterID,PlayerTwoCharacterID,PlayerOneStocksTaken,PlayerTwoStocksTaken,StageID,GameDate,GameLength\n" +
		"g,a,b,x,2,3,4,5,d,1.0\n"
	require.NoError(t, os.WriteFile(bad, []byte(content), 0o644))
	_, err = ReadGameDataCSV(bad)
	assert.ErrorContains(t, err, "line 2")

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = ReadGameDataCSV(empty)
	assert.Error(t, err)
}

func TestMergeMatches(t *testing.T) {
	previous := sampleMatches()
	replacement := previous[0]
	replacement.GameLength = 9
	added := schema.MatchRecord{GameID: "2023/Game_9", PlayerOneName: "a", PlayerTwoName: "b"}

	merged := MergeMatches(previous, []schema.MatchRecord{replacement, added})
	require.Len(t, merged, 3)
	assert.Equal(t, []string{"2023/Game_9", "2024/Game_1", "2024/Game_2"},
		[]string{merged[0].GameID, merged[1].GameID, merged[2].GameID})
	assert.Equal(t, 9.0, merged[2].GameLength)
}

func TestExportStats(t *testing.T) {
	dir := t.TempDir()
	result := &schema.StatsResult{
		Player:   "Zain",
		Matchups: []schema.MatchupStat{{SelfCharacterID: 9, OtherCharacterID: 20, WinPercentage: 50}},
		Stages:   []schema.StageStat{{StageID: 31, WinPercentage: 50}},
	}

	paths, err := ExportStats(dir, result)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, schema.MatchupResultsFile),
		filepath.Join(dir, schema.StageResultsFile),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "StageID,Percentage\n31,50\n", string(data))
}

func TestExportStoreParquet(t *testing.T) {
	store := newTestMatchStore(t)
	var out bytes.Buffer

	err := ExportStoreParquet(&out, store, filepath.Join(t.TempDir(), "m.parquet"))
	assert.ErrorContains(t, err, "no matches")

	err = ExportStoreParquet(&out, store, "")
	assert.ErrorContains(t, err, "--output-file")

	require.NoError(t, store.InsertMatches(sampleMatches()))
	path := filepath.Join(t.TempDir(), "m.parquet")
	require.NoError(t, ExportStoreParquet(&out, store, path))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "Exported 2 matches")
}
