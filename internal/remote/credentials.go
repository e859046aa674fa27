// Package remote bulk-loads exported tables into the remote PostgreSQL store.
package remote

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding remote credentials. The legacy names are
// still honored when the current ones are unset.
const (
	EnvUser     = "SLIPPISTATS_REMOTE_USER"
	EnvPassword = "SLIPPISTATS_REMOTE_PASSWORD"
	EnvRole     = "SLIPPISTATS_REMOTE_ROLE"

	legacyEnvUser     = "slippiRDSUsername"
	legacyEnvPassword = "slippiRDSPassword"
	legacyEnvRole     = "slippiRoleARN"
)

// Credentials authenticate the uploader. Role is assumed with SET ROLE after connecting.
type Credentials struct {
	User     string
	Password string
	Role     string
}

// LoadCredentials loads the first readable env file (if any) into the process
// environment without overriding existing variables, then reads the credentials.
func LoadCredentials(envFiles ...string) (Credentials, error) {
	for _, path := range envFiles {
		err := godotenv.Load(path)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, err
		}
	}
	return credentialsFromEnv(os.LookupEnv), nil
}

// credentialsFromEnv reads credentials through lookup, preferring current names.
func credentialsFromEnv(lookup func(string) (string, bool)) Credentials {
	get := func(name, legacy string) string {
		if v, ok := lookup(name); ok && v != "" {
			return v
		}
		v, _ := lookup(legacy)
		return v
	}
	return Credentials{
		User:     get(EnvUser, legacyEnvUser),
		Password: get(EnvPassword, legacyEnvPassword),
		Role:     get(EnvRole, legacyEnvRole),
	}
}
