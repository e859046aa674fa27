package iocache

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// gameDataTable is the local analytical table of match records.
const gameDataTable = schema.GameDataTable

// gameDataColumns lists the gamedata columns in MatchRecord field order.
var gameDataColumns = []string{
	"game_id",
	"player_one_name",
	"player_two_name",
	"player_one_character_id",
	"player_two_character_id",
	"player_one_stocks_taken",
	"player_two_stocks_taken",
	"stage_id",
	"game_date",
	"game_length",
}

// SQLMatchStore implements the MatchStore interface on top of database/sql.
type SQLMatchStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.MatchStore = &SQLMatchStore{} // Compile-time check

// NewMatchStore opens the match store for the given backend and ensures the
// gamedata table exists. The none backend returns a store that keeps nothing.
func NewMatchStore(backend schema.DatabaseBackend, connStr string) (contract.MatchStore, error) {
	if backend == schema.NoneBackend {
		return &SQLMatchStore{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetStoreDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateGameDataQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", gameDataTable, err)
	}
	return &SQLMatchStore{db: db, backend: backend}, nil
}

// getCreateGameDataQuery returns the CREATE TABLE query for gamedata.
func getCreateGameDataQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(gameDataTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				game_id VARCHAR(255) PRIMARY KEY,
				player_one_name VARCHAR(255) NOT NULL,
				player_two_name VARCHAR(255) NOT NULL,
				player_one_character_id INT NOT NULL,
				player_two_character_id INT NOT NULL,
				player_one_stocks_taken INT NOT NULL,
				player_two_stocks_taken INT NOT NULL,
				stage_id INT NOT NULL,
				game_date VARCHAR(64) NOT NULL,
				game_length DOUBLE NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				game_id TEXT PRIMARY KEY,
				player_one_name TEXT NOT NULL,
				player_two_name TEXT NOT NULL,
				player_one_character_id INTEGER NOT NULL,
				player_two_character_id INTEGER NOT NULL,
				player_one_stocks_taken INTEGER NOT NULL,
				player_two_stocks_taken INTEGER NOT NULL,
				stage_id INTEGER NOT NULL,
				game_date TEXT NOT NULL,
				game_length DOUBLE PRECISION NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				game_id TEXT PRIMARY KEY,
				player_one_name TEXT NOT NULL,
				player_two_name TEXT NOT NULL,
				player_one_character_id INTEGER NOT NULL,
				player_two_character_id INTEGER NOT NULL,
				player_one_stocks_taken INTEGER NOT NULL,
				player_two_stocks_taken INTEGER NOT NULL,
				stage_id INTEGER NOT NULL,
				game_date TEXT NOT NULL,
				game_length REAL NOT NULL
			);
		`, quoted)
	}
}

// getUpsertMatchQuery returns the insert-or-replace query keyed on game_id.
func getUpsertMatchQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(gameDataTable, backend)
	cols := strings.Join(gameDataColumns, ", ")
	values := placeholders(backend, len(gameDataColumns))

	switch backend {
	case schema.MySQLBackend:
		updates := make([]string, 0, len(gameDataColumns)-1)
		for _, c := range gameDataColumns[1:] {
			updates = append(updates, fmt.Sprintf("%s = new.%s", c, c))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			quoted, cols, values, strings.Join(updates, ", "))

	case schema.PostgreSQLBackend:
		updates := make([]string, 0, len(gameDataColumns)-1)
		for _, c := range gameDataColumns[1:] {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (game_id) DO UPDATE SET %s",
			quoted, cols, values, strings.Join(updates, ", "))

	default: // SQLite
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)", quoted, cols, values)
	}
}

// InsertMatches upserts all records in one transaction.
func (s *SQLMatchStore) InsertMatches(records []schema.MatchRecord) error {
	if s.db == nil || len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(getUpsertMatchQuery(s.backend))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.GameID, r.PlayerOneName, r.PlayerTwoName,
			r.PlayerOneCharacterID, r.PlayerTwoCharacterID,
			r.PlayerOneStocksTaken, r.PlayerTwoStocksTaken,
			r.StageID, r.GameDate, r.GameLength,
		); err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", r.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit matches: %w", err)
	}
	return nil
}

// AllMatches returns every stored match ordered by game id.
func (s *SQLMatchStore) AllMatches() ([]schema.MatchRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY game_id",
		strings.Join(gameDataColumns, ", "), quoteTableName(gameDataTable, s.backend))
	return s.queryMatches(query)
}

// MatchesForPlayer returns the matches where either side is the named player.
func (s *SQLMatchStore) MatchesForPlayer(name string) ([]schema.MatchRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE player_one_name = %s OR player_two_name = %s ORDER BY game_id",
		strings.Join(gameDataColumns, ", "), quoteTableName(gameDataTable, s.backend),
		placeholder(s.backend, 1), placeholder(s.backend, 2))
	return s.queryMatches(query, name, name)
}

func (s *SQLMatchStore) queryMatches(query string, args ...any) ([]schema.MatchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.MatchRecord
	for rows.Next() {
		var r schema.MatchRecord
		if err := rows.Scan(
			&r.GameID, &r.PlayerOneName, &r.PlayerTwoName,
			&r.PlayerOneCharacterID, &r.PlayerTwoCharacterID,
			&r.PlayerOneStocksTaken, &r.PlayerTwoStocksTaken,
			&r.StageID, &r.GameDate, &r.GameLength,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return results, nil
}

// GetStatus returns counts and the date range of stored matches.
func (s *SQLMatchStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	quoted := quoteTableName(gameDataTable, s.backend)
	query := fmt.Sprintf("SELECT COUNT(*), COALESCE(MIN(game_date), ''), COALESCE(MAX(game_date), '') FROM %s", quoted)
	if err := s.db.QueryRow(query).Scan(&status.TotalMatches, &status.OldestGame, &status.NewestGame); err != nil {
		return status, fmt.Errorf("failed to get match counts: %w", err)
	}

	playersQuery := fmt.Sprintf(`SELECT COUNT(*) FROM (
		SELECT player_one_name AS name FROM %s UNION SELECT player_two_name AS name FROM %s
	) players`, quoted, quoted)
	if err := s.db.QueryRow(playersQuery).Scan(&status.TotalPlayers); err != nil {
		return status, fmt.Errorf("failed to get player count: %w", err)
	}
	return status, nil
}

// Close closes the underlying connection.
func (s *SQLMatchStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
