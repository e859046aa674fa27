package cmd

import (
	"fmt"

	"github.com/huangsam/slippistats/core"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/remote"
	"github.com/spf13/cobra"
)

// envFiles are the candidate .env locations for remote credentials.
var envFiles = []string{".env"}

// newUploader connects to --remote-db-connect with credentials from the environment.
func newUploader() (*remote.PGUploader, error) {
	creds, err := remote.LoadCredentials(envFiles...)
	if err != nil {
		return nil, err
	}
	return remote.NewUploader(rootCtx, cfg.RemoteDBConnect, creds, cfg.RemoteTruncate)
}

// connectUploader is swapped out in tests.
var connectUploader = func() (contract.RemoteUploader, error) {
	uploader, err := newUploader()
	if err != nil {
		return nil, err
	}
	return uploader, nil
}

// uploadCmd copies the exported tables into the remote store.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Bulk-load the exported tables into the remote PostgreSQL store.",
	Long: `Load GameData.csv, MatchupResults.csv and StageResults.csv from the export directory
into the gamedata, matchupresults and stageresults tables of the remote store.

Each table is loaded with COPY inside its own transaction. Credentials are read from
SLIPPISTATS_REMOTE_USER, SLIPPISTATS_REMOTE_PASSWORD and SLIPPISTATS_REMOTE_ROLE
(or a .env file in the working directory).

Examples:
  slippistats upload --remote-db-connect "postgres://db.example.com:5432/slippi"
  slippistats upload --remote-db-connect "host=db.example.com dbname=slippi" --remote-truncate`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		uploader, err := connectUploader()
		if err != nil {
			return fmt.Errorf("cannot connect to remote store: %w", err)
		}
		defer uploader.Close()

		if _, err := core.ExecuteUpload(rootCtx, cfg, uploader); err != nil {
			return fmt.Errorf("cannot upload tables: %w", err)
		}
		return nil
	},
}
