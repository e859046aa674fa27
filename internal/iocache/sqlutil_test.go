package iocache

import (
	"testing"

	"github.com/huangsam/slippistats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"simple", "gamedata", false},
		{"with numbers", "gamedata_2024", false},
		{"leading underscore", "_cache", false},
		{"mixed case", "GameData", false},
		{"empty", "", true},
		{"starts with number", "1gamedata", true},
		{"contains dash", "game-data", true},
		{"contains space", "game data", true},
		{"contains dot", "public.gamedata", true},
		{"sql injection attempt", "x'; DROP TABLE gamedata; --", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"gamedata"`},
		{schema.MySQLBackend, "`gamedata`"},
		{schema.PostgreSQLBackend, `"gamedata"`},
		{schema.NoneBackend, `"gamedata"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("gamedata", tt.backend))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))

	assert.Equal(t, "?, ?, ?", placeholders(schema.MySQLBackend, 3))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
}

func TestDriverFor(t *testing.T) {
	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := driverFor(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := driverFor(schema.NoneBackend)
	assert.Error(t, err)
}
