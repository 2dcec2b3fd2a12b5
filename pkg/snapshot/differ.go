package snapshot

import (
	"fmt"
	"sort"
)

// Changeset holds the lines added and removed between two snapshots.
// Comparison is exact whole-line equality with set semantics: duplicate
// lines are deduplicated and multiplicity is not preserved. Both slices
// are sorted for deterministic logs and reports; consumers that only care
// about membership should treat them as sets.
type Changeset struct {
	Added   []string // lines present only in the new snapshot
	Removed []string // lines present only in the base snapshot
}

// Diff compares two snapshots as unordered line sets. A nil snapshot is
// treated as empty.
func Diff(base, updated *Snapshot) *Changeset {
	var baseLines, newLines []string
	if base != nil {
		baseLines = base.Lines
	}
	if updated != nil {
		newLines = updated.Lines
	}
	return DiffLines(baseLines, newLines)
}

// DiffLines compares two raw line sequences as unordered sets.
func DiffLines(baseLines, newLines []string) *Changeset {
	baseSet := make(map[string]struct{}, len(baseLines))
	for _, line := range baseLines {
		baseSet[line] = struct{}{}
	}

	newSet := make(map[string]struct{}, len(newLines))
	for _, line := range newLines {
		newSet[line] = struct{}{}
	}

	changeset := &Changeset{
		Added:   []string{},
		Removed: []string{},
	}

	for line := range newSet {
		if _, exists := baseSet[line]; !exists {
			changeset.Added = append(changeset.Added, line)
		}
	}
	for line := range baseSet {
		if _, exists := newSet[line]; !exists {
			changeset.Removed = append(changeset.Removed, line)
		}
	}

	// Sort for consistent output
	sort.Strings(changeset.Added)
	sort.Strings(changeset.Removed)

	return changeset
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0
}

// IsEmpty returns true when no lines were added or removed.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}
	return fmt.Sprintf("%d line(s) added, %d line(s) removed", len(c.Added), len(c.Removed))
}
