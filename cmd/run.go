package cmd

import (
	"fmt"

	"github.com/huangsam/slippistats/core"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/iocache"
	"github.com/spf13/cobra"
)

// runCmd chains ingest, stats and the optional upload.
var runCmd = &cobra.Command{
	Use:   "run [replay-root]",
	Short: "Ingest new replays, recompute stats and optionally upload.",
	Long: `Run the whole pipeline: ingest new replays, recompute --player's matchup and
stage win rates, then upload the three tables when --upload is set.

Examples:
  slippistats run ~/Slippi --player Foo
  slippistats run ~/Slippi --player Foo --upload --remote-db-connect "postgres://db/slippi"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		client, err := newExtractor()
		if err != nil {
			return fmt.Errorf("cannot create extractor: %w", err)
		}

		var uploader contract.RemoteUploader
		if cfg.Upload {
			if uploader, err = connectUploader(); err != nil {
				return fmt.Errorf("cannot connect to remote store: %w", err)
			}
			defer uploader.Close()
		}

		if err := core.ExecuteRun(rootCtx, cfg, client, storeManager, iocache.NewFileCutoffStore(cfg.StatePath), uploader); err != nil {
			return fmt.Errorf("cannot complete run: %w", err)
		}
		return nil
	},
}
