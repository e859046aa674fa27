package schema

import "time"

// CacheStatus represents the status of the dump cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// StoreStatus represents the status of the match store.
type StoreStatus struct {
	Backend      string `json:"backend"`
	Connected    bool   `json:"connected"`
	TotalMatches int    `json:"total_matches"`
	TotalPlayers int    `json:"total_players"`
	NewestGame   string `json:"newest_game"`
	OldestGame   string `json:"oldest_game"`
}
