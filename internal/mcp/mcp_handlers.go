package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/slippistats/core"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// matchupEntry is a MatchupStat with character names for readers.
type matchupEntry struct {
	SelfCharacter  string   `json:"self_character"`
	OtherCharacter string   `json:"other_character"`
	Wins           int      `json:"wins"`
	Losses         int      `json:"losses"`
	Draws          int      `json:"draws"`
	WinPercentage  *float64 `json:"win_percentage"`
	Label          string   `json:"label"`
}

type stageEntry struct {
	Stage         string   `json:"stage"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	Draws         int      `json:"draws"`
	WinPercentage *float64 `json:"win_percentage"`
	Label         string   `json:"label"`
}

// statsConfig applies the shared player arguments onto a copy of the base config.
func (h *toolHandler) statsConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	cfg.TargetPlayer = strings.TrimSpace(request.GetString("player", ""))
	if cfg.TargetPlayer == "" {
		return nil, fmt.Errorf("player is required")
	}
	cfg.ExcludeSelfPlay = request.GetBool("exclude_self_play", cfg.ExcludeSelfPlay)
	return cfg, nil
}

func (h *toolHandler) handleGetMatchupStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.statsConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetStatsResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	entries := make([]matchupEntry, 0, len(result.Matchups))
	for _, m := range result.Matchups {
		entries = append(entries, matchupEntry{
			SelfCharacter:  schema.CharacterName(m.SelfCharacterID),
			OtherCharacter: schema.CharacterName(m.OtherCharacterID),
			Wins:           m.Wins,
			Losses:         m.Losses,
			Draws:          m.Draws,
			WinPercentage:  schema.PercentagePtr(m.WinPercentage),
			Label:          contract.GetPlainLabel(m.WinPercentage),
		})
	}
	return jsonResult(entries)
}

func (h *toolHandler) handleGetStageStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.statsConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetStatsResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	entries := make([]stageEntry, 0, len(result.Stages))
	for _, s := range result.Stages {
		entries = append(entries, stageEntry{
			Stage:         schema.StageName(s.StageID),
			Wins:          s.Wins,
			Losses:        s.Losses,
			Draws:         s.Draws,
			WinPercentage: schema.PercentagePtr(s.WinPercentage),
			Label:         contract.GetPlainLabel(s.WinPercentage),
		})
	}
	return jsonResult(entries)
}

func (h *toolHandler) handleListMatches(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.TargetPlayer = strings.TrimSpace(request.GetString("player", ""))
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("limit cannot be negative (received %d)", limit)), nil
	}

	records, err := core.ListMatches(cfg, h.mgr, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing matches failed: %v", err)), nil
	}
	return jsonResult(records)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
