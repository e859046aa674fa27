// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the slippistats MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Slippi Stats Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_matchup_stats ---
	s.AddTool(mcp.NewTool("get_matchup_stats",
		mcp.WithDescription("Win percentage of a player for every (own character, opponent character) pair in the stored matches."),
		mcp.WithString("player", mcp.Description("Display name of the player to compute stats for."), mcp.Required()),
		mcp.WithBoolean("exclude_self_play", mcp.Description("Ignore matches where the player faced themselves.")),
	), h.handleGetMatchupStats)

	// --- 2. Tool: get_stage_stats ---
	s.AddTool(mcp.NewTool("get_stage_stats",
		mcp.WithDescription("Win percentage of a player on every stage in the stored matches."),
		mcp.WithString("player", mcp.Description("Display name of the player to compute stats for."), mcp.Required()),
		mcp.WithBoolean("exclude_self_play", mcp.Description("Ignore matches where the player faced themselves.")),
	), h.handleGetStageStats)

	// --- 3. Tool: list_matches ---
	s.AddTool(mcp.NewTool("list_matches",
		mcp.WithDescription("List stored matches ordered by game id."),
		mcp.WithString("player", mcp.Description("Only list matches where either side has this display name.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of matches to return.")),
	), h.handleListMatches)

	return s
}

// StartMCPServer starts the slippistats MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
