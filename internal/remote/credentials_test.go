package remote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Credentials
	}{
		{
			name: "current names",
			env:  map[string]string{EnvUser: "u", EnvPassword: "p", EnvRole: "r"},
			want: Credentials{User: "u", Password: "p", Role: "r"},
		},
		{
			name: "legacy names",
			env:  map[string]string{"slippiRDSUsername": "lu", "slippiRDSPassword": "lp", "slippiRoleARN": "lr"},
			want: Credentials{User: "lu", Password: "lp", Role: "lr"},
		},
		{
			name: "current wins over legacy",
			env:  map[string]string{EnvUser: "u", "slippiRDSUsername": "lu"},
			want: Credentials{User: "u"},
		},
		{
			name: "empty current falls back",
			env:  map[string]string{EnvRole: "", "slippiRoleARN": "lr"},
			want: Credentials{Role: "lr"},
		},
		{
			name: "nothing set",
			env:  map[string]string{},
			want: Credentials{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, credentialsFromEnv(mapLookup(tt.env)))
		})
	}
}

func TestLoadCredentials_EnvFile(t *testing.T) {
	t.Setenv(EnvUser, "")
	t.Setenv(EnvPassword, "from-process")
	t.Setenv(EnvRole, "")
	require.NoError(t, os.Unsetenv(EnvUser))
	require.NoError(t, os.Unsetenv(EnvRole))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SLIPPISTATS_REMOTE_USER=loader\nSLIPPISTATS_REMOTE_PASSWORD=from-file\nSLIPPISTATS_REMOTE_ROLE=uploader\n"), 0o600))

	creds, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, "loader", creds.User)
	assert.Equal(t, "from-process", creds.Password, "process environment is not overridden")
	assert.Equal(t, "uploader", creds.Role)

	// godotenv sets the variables for the process; clear them for other tests
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvUser)
		_ = os.Unsetenv(EnvRole)
	})
}

func TestLoadCredentials_NoFiles(t *testing.T) {
	t.Setenv(EnvUser, "only-env")
	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "only-env", creds.User)
}
