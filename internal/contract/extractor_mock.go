package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockExtractorClient is a mock type for the ExtractorClient interface.
type MockExtractorClient struct {
	mock.Mock
}

var _ ExtractorClient = &MockExtractorClient{} // Compile-time check

// Dump implements the ExtractorClient interface.
func (m *MockExtractorClient) Dump(ctx context.Context, path string) ([]byte, error) {
	ret := m.Called(ctx, path)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
