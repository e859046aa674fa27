package iocache

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/slippistats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatches() []schema.MatchRecord {
	return []schema.MatchRecord{
		{
			GameID: "2024/Game_2", PlayerOneName: "Mango", PlayerTwoName: "Zain",
			PlayerOneCharacterID: 20, PlayerTwoCharacterID: 9,
			PlayerOneStocksTaken: 4, PlayerTwoStocksTaken: 2,
			StageID: 31, GameDate: "2024-03-02T18:10:00Z", GameLength: 3.5,
		},
		{
			GameID: "2024/Game_1", PlayerOneName: "Zain", PlayerTwoName: "Hbox",
			PlayerOneCharacterID: 9, PlayerTwoCharacterID: 15,
			PlayerOneStocksTaken: 3, PlayerTwoStocksTaken: 4,
			StageID: 2, GameDate: "2024-03-01T20:00:00Z", GameLength: 5.125,
		},
	}
}

func newTestMatchStore(t *testing.T) *SQLMatchStore {
	t.Helper()
	store, err := NewMatchStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "matches.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*SQLMatchStore)
}

func TestSQLMatchStore_InsertAndQuery(t *testing.T) {
	store := newTestMatchStore(t)
	require.NoError(t, store.InsertMatches(sampleMatches()))

	all, err := store.AllMatches()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024/Game_1", all[0].GameID, "ordered by game id")
	assert.Equal(t, sampleMatches()[0], all[1])

	mango, err := store.MatchesForPlayer("Mango")
	require.NoError(t, err)
	require.Len(t, mango, 1)
	assert.Equal(t, "2024/Game_2", mango[0].GameID)

	zain, err := store.MatchesForPlayer("Zain")
	require.NoError(t, err)
	assert.Len(t, zain, 2, "either side matches")

	nobody, err := store.MatchesForPlayer("Nobody")
	require.NoError(t, err)
	assert.Empty(t, nobody)
}

func TestSQLMatchStore_UpsertByGameID(t *testing.T) {
	store := newTestMatchStore(t)
	require.NoError(t, store.InsertMatches(sampleMatches()))

	updated := sampleMatches()[0]
	updated.PlayerTwoStocksTaken = 3
	require.NoError(t, store.InsertMatches([]schema.MatchRecord{updated}))

	all, err := store.AllMatches()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 3, all[1].PlayerTwoStocksTaken)
}

func TestSQLMatchStore_EmptyInsert(t *testing.T) {
	store := newTestMatchStore(t)
	assert.NoError(t, store.InsertMatches(nil))
	all, err := store.AllMatches()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLMatchStore_GetStatus(t *testing.T) {
	store := newTestMatchStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalMatches)

	require.NoError(t, store.InsertMatches(sampleMatches()))
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalMatches)
	assert.Equal(t, 3, status.TotalPlayers)
	assert.Equal(t, "2024-03-01T20:00:00Z", status.OldestGame)
	assert.Equal(t, "2024-03-02T18:10:00Z", status.NewestGame)
}

func TestNewMatchStore_None(t *testing.T) {
	store, err := NewMatchStore(schema.NoneBackend, "")
	require.NoError(t, err)
	assert.NoError(t, store.InsertMatches(sampleMatches()))

	all, err := store.AllMatches()
	require.NoError(t, err)
	assert.Empty(t, all)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestGetUpsertMatchQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains []string
	}{
		{schema.SQLiteBackend, []string{"INSERT OR REPLACE", `"gamedata"`}},
		{schema.MySQLBackend, []string{"ON DUPLICATE KEY UPDATE", "game_length = new.game_length", "`gamedata`"}},
		{schema.PostgreSQLBackend, []string{"ON CONFLICT (game_id)", "$10", "stage_id = EXCLUDED.stage_id"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			query := getUpsertMatchQuery(tt.backend)
			for _, want := range tt.contains {
				assert.Contains(t, query, want)
			}
			assert.NotContains(t, query, "game_id = ", "primary key is never updated")
		})
	}
}
