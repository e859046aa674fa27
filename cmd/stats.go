package cmd

import (
	"fmt"

	"github.com/huangsam/slippistats/core"
	"github.com/spf13/cobra"
)

// statsCmd computes win rates for one player.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show matchup and stage win rates for a player.",
	Long: `Compute the win percentage of --player for every (own character, opponent character)
pair and for every stage, using the matches in the store.

A match is won by the side that took at least --stock-threshold stocks against an
opponent below it, or otherwise by the side that took more stocks. Equal counts are
draws and do not count toward the percentage.

MatchupResults.csv and StageResults.csv are written to the export directory.

Examples:
  slippistats stats --player Foo
  slippistats stats --player Foo --exclude-self-play --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if _, err := core.ExecuteStats(rootCtx, cfg, storeManager); err != nil {
			return fmt.Errorf("cannot compute stats: %w", err)
		}
		return nil
	},
}
