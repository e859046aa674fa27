package remote

import (
	"context"
	"io"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockUploader is a mock implementation of RemoteUploader for testing.
type MockUploader struct {
	mock.Mock
}

var _ contract.RemoteUploader = &MockUploader{} // Compile-time check

// Upload implements the RemoteUploader interface. The stream is drained so
// tests can assert on its content through the returned bytes argument.
func (m *MockUploader) Upload(ctx context.Context, table string, csv io.Reader) (int64, error) {
	data, err := io.ReadAll(csv)
	if err != nil {
		return 0, err
	}
	args := m.Called(ctx, table, string(data))
	return args.Get(0).(int64), args.Error(1)
}

// Close implements the RemoteUploader interface.
func (m *MockUploader) Close() {
	m.Called()
}
