package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/huangsam/slippistats/core/assemble"
	"github.com/huangsam/slippistats/core/extract"
	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// RunBatch processes files in parallel using a worker pool of cfg.Workers goroutines.
// Each result is stored at its file's index so the report keeps selection order.
// A failing file never stops the batch.
func RunBatch(ctx context.Context, cfg *contract.Config, client contract.ExtractorClient, cache contract.DumpCache, files []schema.Candidate) schema.BatchReport {
	start := time.Now()
	results := make([]schema.FileResult, len(files))
	indexCh := make(chan int, len(files))
	var wg sync.WaitGroup

	// Start worker pool
	workers := max(1, min(cfg.Workers, len(files)))
	for range workers {
		wg.Go(func() {
			for i := range indexCh {
				// Each worker writes to a unique index, which is safe
				results[i] = processFile(ctx, cfg, client, cache, files[i])
			}
		})
	}

	for i := range files {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return schema.BatchReport{
		StartedAt: start,
		Duration:  time.Since(start),
		Results:   results,
	}
}

// processFile dumps, extracts and assembles a single replay.
func processFile(ctx context.Context, cfg *contract.Config, client contract.ExtractorClient, cache contract.DumpCache, file schema.Candidate) schema.FileResult {
	start := time.Now()
	result := schema.FileResult{Path: file.Path}
	finish := func(status schema.FileStatus, err error) schema.FileResult {
		result.Status = status
		result.Err = err
		if err != nil {
			result.Error = err.Error()
		}
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return finish(schema.StatusToolError, err)
	}

	// 1. Obtain the raw dump (cache first)
	raw, cached, err := cachedDump(ctx, cfg, client, cache, file)
	result.Cached = cached
	if err != nil {
		return finish(schema.StatusToolError, err)
	}

	// 2. Extract field sequences from the dump
	seqs, err := extract.Extract(raw)
	if err != nil {
		return finish(schema.StatusFormatError, withPath(err, file.Path))
	}

	// 3. Assemble the match record
	record, err := assemble.Assemble(cfg, file.Path, seqs)
	if err != nil {
		return finish(schema.StatusFormatError, err)
	}

	result.Record = &record
	return finish(schema.StatusProcessed, nil)
}

// withPath attaches the replay path to a format error that lacks one.
func withPath(err error, path string) error {
	var formatErr *contract.DataFormatError
	if errors.As(err, &formatErr) && formatErr.Path == "" {
		withPathErr := *formatErr
		withPathErr.Path = path
		return &withPathErr
	}
	return err
}
