package remote

import (
	"context"
	"testing"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyStatement(t *testing.T) {
	assert.Equal(t, `COPY "gamedata" FROM STDIN WITH (FORMAT csv, HEADER true)`, copyStatement("gamedata"))
	assert.Equal(t, `COPY "odd""name" FROM STDIN WITH (FORMAT csv, HEADER true)`, copyStatement(`odd"name`))
}

func TestNewUploader_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing connection string", func(t *testing.T) {
		_, err := NewUploader(ctx, "", Credentials{}, false)
		var remoteErr *contract.RemoteStoreError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "connect", remoteErr.Op)
	})

	t.Run("invalid connection string", func(t *testing.T) {
		_, err := NewUploader(ctx, "postgres://host:notaport/db", Credentials{}, false)
		var remoteErr *contract.RemoteStoreError
		require.ErrorAs(t, err, &remoteErr)
		assert.Contains(t, err.Error(), "invalid connection string")
	})
}
