// Package main provides a performance benchmarking tool for the slippistats CLI.
// It measures ingest times across replay folders of different sizes, running each
// folder multiple times without the dump cache and with it, treating the first
// cached run as cold and averaging the rest as warm. Results are written as CSV.
//
// Prerequisites:
// - slippistats binary installed and available in PATH
// - The extractor (node slippiStats.js by default) runnable from the working directory
// - One or more folders of .slp replays
//
// Usage: go run benchmark/main.go [replay-dir...]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Folder      string
	Replays     int
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Folders     []string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	WorkDir     string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s [replay-dir...]\n", os.Args[0])
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "slippistats-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		Folders:     os.Args[1:],
		Timeout:     10 * time.Minute,
		Workers:     8,
		NoCacheRuns: 2,
		CacheRuns:   4,
		WorkDir:     workDir,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary and replay folders exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("slippistats"); err != nil {
		return fmt.Errorf("slippistats binary not found in PATH")
	}
	for _, folder := range config.Folders {
		info, err := os.Stat(folder)
		if err != nil {
			return fmt.Errorf("replay folder %s not accessible: %w", folder, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("replay folder %s is not a directory", folder)
		}
	}
	return nil
}

// countReplays returns the number of .slp files under folder
func countReplays(folder string) int {
	n := 0
	_ = filepath.WalkDir(folder, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(d.Name()) == ".slp" {
			n++
		}
		return nil
	})
	return n
}

// runBenchmarks executes the benchmark suite for every folder
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d folders, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Folders), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for i, folder := range config.Folders {
		fmt.Printf("Benchmarking %s\n", folder)
		cacheFile := filepath.Join(config.WorkDir, fmt.Sprintf("cache_%d.db", i))
		results = append(results, runBenchmarkSuite(config, folder, cacheFile))
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a folder
func runBenchmarkSuite(config BenchmarkConfig, folder, cacheFile string) BenchmarkResult {
	runPhase := func(cacheArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, folder, cacheArgs, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase([]string{"--cache-backend", "none"}, config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs against a fresh cache file
	_ = os.Remove(cacheFile)
	coldTime, warmAvg := runPhase([]string{"--cache-backend", "sqlite", "--cache-db-connect", cacheFile}, config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Folder:      folder,
		Replays:     countReplays(folder),
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark runs a full ingest numRuns times and returns the cold time and warm times
func runBenchmark(config BenchmarkConfig, folder string, cacheArgs []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{
		"ingest", folder, "--full",
		"--store-backend", "none",
		"--workers", fmt.Sprint(config.Workers),
		"--export-dir", config.WorkDir,
		"--state-file", filepath.Join(config.WorkDir, "cutoff"),
		"--output", "json", "--output-file", filepath.Join(config.WorkDir, "report.json"),
	}, cacheArgs...)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "slippistats", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("slippistats_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"folder", "replays", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Folder, fmt.Sprint(result.Replays), result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-30s (%d replays): No-cache: %s, Cold: %s, Warm: %s\n",
			result.Folder, result.Replays, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}
