// Package selector discovers replay files and narrows them down to the ones
// modified since the last successful ingest.
package selector

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// Discover walks root recursively and returns every regular file whose extension
// matches ext (case-insensitive). Paths matching an exclude pattern are skipped;
// a matching directory is not descended into.
func Discover(root, ext string, excludes []string) ([]schema.Candidate, error) {
	ext = strings.ToLower(ext)
	var candidates []schema.Candidate

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != root && contract.ShouldIgnore(filepath.ToSlash(rel)+"/", excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.ToLower(filepath.Ext(path)) != ext {
			return nil
		}
		if contract.ShouldIgnore(rel, excludes) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		candidates = append(candidates, schema.Candidate{
			Path:    path,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// Select keeps the candidates modified strictly after cutoff, sorted ascending by path.
// A zero cutoff selects everything.
func Select(candidates []schema.Candidate, cutoff time.Time) []schema.Candidate {
	selected := make([]schema.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ModTime.After(cutoff) {
			selected = append(selected, c)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Path < selected[j].Path
	})
	return selected
}
