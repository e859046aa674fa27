package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/slippistats/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints dump cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Size: %d bytes\n", status.TableSizeBytes)
}

// PrintStoreStatus prints match store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Matches: %d\n", status.TotalMatches)
	_, _ = fmt.Fprintf(w, "Total Players: %d\n", status.TotalPlayers)
	if status.TotalMatches > 0 {
		_, _ = fmt.Fprintf(w, "Newest Game: %s\n", status.NewestGame)
		_, _ = fmt.Fprintf(w, "Oldest Game: %s\n", status.OldestGame)
	}
}
