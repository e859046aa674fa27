// Package iocache persists match records, raw tool output and the incremental cutoff.
package iocache

import (
	"sync"

	"github.com/huangsam/slippistats/internal/contract"
)

// StoreManager holds the match store and dump cache for the running command.
// Either may be nil when its backend is "none".
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	matches      contract.MatchStore
	dumps        contract.DumpCache
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetMatchStore returns the match store.
func (mgr *StoreManager) GetMatchStore() contract.MatchStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.matches
}

// GetDumpCache returns the dump cache.
func (mgr *StoreManager) GetDumpCache() contract.DumpCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.dumps
}
