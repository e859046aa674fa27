package cmd

import (
	"fmt"

	"github.com/huangsam/slippistats/core"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/iocache"
	"github.com/spf13/cobra"
)

// newExtractor builds the external dump tool client from the validated config.
func newExtractor() (contract.ExtractorClient, error) {
	return contract.NewLocalExtractorClient(cfg.ExtractorCommand, cfg.ExtractorTimeout)
}

// ingestCmd turns new replays into match records.
var ingestCmd = &cobra.Command{
	Use:   "ingest [replay-root]",
	Short: "Process new replay files into the match store.",
	Long: `Find replay files modified since the last ingest, run the extractor on each one
and upsert the resulting match records into the match store.

Every run rewrites GameData.csv in the export directory with the whole table and then
advances the cutoff. Files that fail to dump or parse are skipped with a warning.

Examples:
  # Ingest new replays under the Slippi folder
  slippistats ingest ~/Slippi

  # Re-process everything, reusing cached dumps
  slippistats ingest ~/Slippi --full

  # Per-file report as JSON
  slippistats ingest ~/Slippi --output json --output-file report.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		client, err := newExtractor()
		if err != nil {
			return fmt.Errorf("cannot create extractor: %w", err)
		}
		if _, err := core.ExecuteIngest(rootCtx, cfg, client, storeManager, iocache.NewFileCutoffStore(cfg.StatePath)); err != nil {
			return fmt.Errorf("cannot run ingest: %w", err)
		}
		return nil
	},
}
