package munimap

import (
	"fmt"
	"time"
)

// Result summarizes one pipeline run.
type Result struct {
	RunID    string // unique identifier, shared with the manifest
	FirstRun bool   // set when the base snapshot was created this run

	// Parse counts
	Parsed           int // records parsed from the new snapshot
	Skipped          int // blank or malformed rows dropped during parse
	Exported         int // records written across all region groups
	Extraterritorial int // records excluded from export by region

	// Diff totals
	Added   int // lines present only in the new snapshot
	Removed int // lines present only in the base snapshot

	ReportPath string         // change report path, empty when nothing changed
	Files      []string       // exported file paths, in creation order
	ByRegion   map[string]int // record count per federative unit
	Elapsed    time.Duration
}

// HasChanges reports whether the run detected any line-level changes.
func (r *Result) HasChanges() bool {
	return r.Added > 0 || r.Removed > 0
}

// Summary returns a one-line human-readable account of the run.
func (r *Result) Summary() string {
	if r.FirstRun {
		return fmt.Sprintf("first run: %d records exported across %d regions in %s",
			r.Exported, len(r.ByRegion), r.Elapsed.Round(time.Millisecond))
	}
	return fmt.Sprintf("%d records exported across %d regions in %s (%d added, %d removed)",
		r.Exported, len(r.ByRegion), r.Elapsed.Round(time.Millisecond), r.Added, r.Removed)
}
