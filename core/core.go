// Package core has the ingest, stats and upload pipelines.
package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/slippistats/core/agg"
	"github.com/huangsam/slippistats/core/selector"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/internal/iocache"
	"github.com/huangsam/slippistats/internal/outwriter"
	"github.com/huangsam/slippistats/schema"
)

// ExecuteIngest discovers new replays, turns them into match records and persists them.
// The cutoff is only advanced after records are stored and GameData.csv is exported.
func ExecuteIngest(ctx context.Context, cfg *contract.Config, client contract.ExtractorClient, mgr contract.StoreManager, cutoffs contract.CutoffStore) (*schema.BatchReport, error) {
	startedAt := time.Now()

	// --- 1. Resolve the cutoff ---
	cutoff, err := cutoffs.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Cannot read cutoff state, processing every replay", err)
	}
	if cfg.FullRescan {
		cutoff = time.Time{}
	}

	// --- 2. Discover and select ---
	candidates, err := selector.Discover(cfg.RootDir, cfg.ReplayExt, cfg.Excludes)
	if err != nil {
		return nil, fmt.Errorf("failed to discover replays under %s: %w", cfg.RootDir, err)
	}
	selected := selector.Select(candidates, cutoff)
	if !shouldSuppressHeader(ctx) {
		outwriter.LogIngestHeader(cfg, cutoff, len(candidates), len(selected))
	}

	// --- 3. Extract and assemble ---
	report := RunBatch(ctx, cfg, client, mgr.GetDumpCache(), selected)
	report.Cutoff = cutoff
	for _, failed := range report.Failures() {
		contract.LogWarn(fmt.Sprintf("Skipped %s", failed.Path), failed.Err)
	}
	if err := ctx.Err(); err != nil {
		return &report, fmt.Errorf("ingest interrupted: %w", err)
	}

	// --- 4. Persist records and export the table ---
	records := report.Records()
	if store := mgr.GetMatchStore(); store != nil {
		if err := store.InsertMatches(records); err != nil {
			return &report, fmt.Errorf("failed to store %d matches: %w", len(records), err)
		}
		if records, err = store.AllMatches(); err != nil {
			return &report, fmt.Errorf("failed to read stored matches: %w", err)
		}
	} else {
		previous, err := iocache.ReadGameDataCSV(filepath.Join(cfg.ExportDir, schema.GameDataFile))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &report, fmt.Errorf("failed to read previous matches: %w", err)
		}
		records = iocache.MergeMatches(previous, records)
	}
	if _, err := iocache.ExportGameData(cfg.ExportDir, records); err != nil {
		return &report, err
	}

	// --- 5. Advance the cutoff ---
	if err := cutoffs.Save(startedAt); err != nil {
		return &report, err
	}

	report.Duration = time.Since(startedAt)
	if shouldSuppressReport(ctx) {
		outwriter.PrintBatchSummary(&report, cfg)
		return &report, nil
	}
	return &report, outwriter.PrintBatchReport(&report, cfg)
}

// GetStatsResult aggregates the stored matches of the target player without
// writing any export.
func GetStatsResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.StatsResult, error) {
	if cfg.TargetPlayer == "" {
		return nil, errors.New("--player is required to compute stats")
	}

	records, err := loadMatches(cfg, mgr)
	if err != nil {
		return nil, err
	}

	result := agg.Summarize(cfg, records)
	if !shouldSuppressHeader(ctx) {
		outwriter.LogStatsHeader(cfg, &result)
	}
	return &result, nil
}

// ExecuteStats aggregates the stored matches of the target player and writes
// MatchupResults.csv and StageResults.csv.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.StatsResult, error) {
	start := time.Now()
	result, err := GetStatsResult(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	if _, err := iocache.ExportStats(cfg.ExportDir, result); err != nil {
		return result, err
	}
	return result, outwriter.PrintStats(result, cfg, time.Since(start))
}

// ListMatches returns stored matches ordered by game id, optionally filtered to
// the target player and capped at limit (0 means no cap).
func ListMatches(cfg *contract.Config, mgr contract.StoreManager, limit int) ([]schema.MatchRecord, error) {
	var records []schema.MatchRecord
	var err error
	if cfg.TargetPlayer != "" {
		records, err = loadMatches(cfg, mgr)
	} else if store := mgr.GetMatchStore(); store != nil {
		records, err = store.AllMatches()
	} else {
		records, err = iocache.ReadGameDataCSV(filepath.Join(cfg.ExportDir, schema.GameDataFile))
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ExecuteUpload bulk-loads the three exported tables into the remote store.
// Local exports are only read, so a failed upload leaves them intact.
func ExecuteUpload(ctx context.Context, cfg *contract.Config, uploader contract.RemoteUploader) ([]schema.UploadResult, error) {
	uploads := []struct{ file, table string }{
		{schema.GameDataFile, schema.GameDataTable},
		{schema.MatchupResultsFile, schema.MatchupResultsTable},
		{schema.StageResultsFile, schema.StageResultsTable},
	}

	results := make([]schema.UploadResult, 0, len(uploads))
	for _, u := range uploads {
		path := filepath.Join(cfg.ExportDir, u.file)
		rows, err := uploadFile(ctx, uploader, path, u.table)
		if err != nil {
			return results, err
		}
		results = append(results, schema.UploadResult{Table: u.table, File: path, Rows: rows})
	}

	outwriter.PrintUploadSummary(results, cfg)
	return results, nil
}

// ExecuteRun ingests new replays, recomputes stats and optionally uploads.
// A nil uploader skips the upload step.
func ExecuteRun(ctx context.Context, cfg *contract.Config, client contract.ExtractorClient, mgr contract.StoreManager, cutoffs contract.CutoffStore, uploader contract.RemoteUploader) error {
	if cfg.TargetPlayer == "" {
		return errors.New("--player is required for run")
	}

	if _, err := ExecuteIngest(withSuppressReport(ctx), cfg, client, mgr, cutoffs); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	if _, err := ExecuteStats(ctx, cfg, mgr); err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	if cfg.Upload && uploader != nil {
		if _, err := ExecuteUpload(ctx, cfg, uploader); err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
	}
	return nil
}

// loadMatches reads the target player's matches from the store, or from the
// exported GameData.csv when no store is configured.
func loadMatches(cfg *contract.Config, mgr contract.StoreManager) ([]schema.MatchRecord, error) {
	if store := mgr.GetMatchStore(); store != nil {
		records, err := store.MatchesForPlayer(cfg.TargetPlayer)
		if err != nil {
			return nil, fmt.Errorf("failed to read matches for %s: %w", cfg.TargetPlayer, err)
		}
		return records, nil
	}

	path := filepath.Join(cfg.ExportDir, schema.GameDataFile)
	records, err := iocache.ReadGameDataCSV(path)
	if err != nil {
		return nil, fmt.Errorf("no match store configured and cannot read %s: %w", path, err)
	}
	filtered := records[:0]
	for _, r := range records {
		if r.PlayerOneName == cfg.TargetPlayer || r.PlayerTwoName == cfg.TargetPlayer {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func uploadFile(ctx context.Context, uploader contract.RemoteUploader, path, table string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &contract.RemoteStoreError{Table: table, Op: "read", Err: err}
	}
	defer func() { _ = f.Close() }()
	return uploader.Upload(ctx, table, f)
}
