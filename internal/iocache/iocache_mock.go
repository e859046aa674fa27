package iocache

import (
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetMatchStore implements the StoreManager interface.
func (m *MockStoreManager) GetMatchStore() contract.MatchStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.MatchStore)
	return store
}

// GetDumpCache implements the StoreManager interface.
func (m *MockStoreManager) GetDumpCache() contract.DumpCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.DumpCache)
	return cache
}

// MockMatchStore is a mock implementation of MatchStore for testing.
type MockMatchStore struct {
	mock.Mock
}

var _ contract.MatchStore = &MockMatchStore{} // Compile-time check

// InsertMatches implements the MatchStore interface.
func (m *MockMatchStore) InsertMatches(records []schema.MatchRecord) error {
	args := m.Called(records)
	return args.Error(0)
}

// AllMatches implements the MatchStore interface.
func (m *MockMatchStore) AllMatches() ([]schema.MatchRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.MatchRecord)
	return records, args.Error(1)
}

// MatchesForPlayer implements the MatchStore interface.
func (m *MockMatchStore) MatchesForPlayer(name string) ([]schema.MatchRecord, error) {
	args := m.Called(name)
	records, _ := args.Get(0).([]schema.MatchRecord)
	return records, args.Error(1)
}

// GetStatus implements the MatchStore interface.
func (m *MockMatchStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the MatchStore interface.
func (m *MockMatchStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockDumpCache is a mock implementation of DumpCache for testing.
type MockDumpCache struct {
	mock.Mock
}

var _ contract.DumpCache = &MockDumpCache{} // Compile-time check

// Get implements the DumpCache interface.
func (m *MockDumpCache) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the DumpCache interface.
func (m *MockDumpCache) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// GetStatus implements the DumpCache interface.
func (m *MockDumpCache) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the DumpCache interface.
func (m *MockDumpCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
