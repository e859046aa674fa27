package cmd

import (
	"github.com/huangsam/slippistats/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [replay-root]",
	Short: "Start the slippistats MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents query matchup stats, stage stats and stored matches.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Progress headers go to stderr, so stdout stays free for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
