package schema

import "time"

// FileResult is the outcome of processing a single replay file.
type FileResult struct {
	Path     string        `json:"path"`
	Status   FileStatus    `json:"status"`
	Record   *MatchRecord  `json:"record,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"duration_ns"`
}

// BatchReport collects the per-file results of one ingest run.
// Results keep the order in which files were selected.
type BatchReport struct {
	StartedAt time.Time     `json:"started_at"`
	Cutoff    time.Time     `json:"cutoff"`
	Duration  time.Duration `json:"duration_ns"`
	Results   []FileResult  `json:"results"`
}

// Records returns the match records of all successfully processed files.
func (r *BatchReport) Records() []MatchRecord {
	records := make([]MatchRecord, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Status == StatusProcessed && res.Record != nil {
			records = append(records, *res.Record)
		}
	}
	return records
}

// Failures returns the results that did not produce a record.
func (r *BatchReport) Failures() []FileResult {
	var failed []FileResult
	for _, res := range r.Results {
		if res.Status != StatusProcessed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Count returns the number of results with the given status.
func (r *BatchReport) Count(status FileStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// UploadResult records one table loaded into the remote store.
type UploadResult struct {
	Table string `json:"table"`
	File  string `json:"file"`
	Rows  int64  `json:"rows"`
}
