package registry

import (
	"strings"

	"github.com/openmuni/munimap/pkg/constants"
)

// Collection holds the records of one snapshot in their original parse
// order. It is built once per run and never mutated afterwards; filtering
// copies matches out rather than touching the underlying slice.
type Collection struct {
	records []Record
}

// NewCollection creates a collection from the given records.
func NewCollection(records ...Record) *Collection {
	return &Collection{records: records}
}

// Len returns the number of records in the collection.
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns a copy of the collection's records in parse order.
func (c *Collection) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Exportable returns the records eligible for partitioned export, which
// excludes the extraterritorial "EX" placeholder region. Lookup still sees
// the full collection.
func (c *Collection) Exportable() []Record {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if r.Extraterritorial() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Filter selects records for interactive lookup.
// Zero-value fields are ignored.
type Filter struct {
	UF           string // exact federative unit match, case-insensitive
	NameContains string // case-insensitive substring of the preferred name
	Code         string // exact match on either the TOM or the IBGE code
	Limit        int    // maximum results; defaults to constants.LookupResultLimit
}

// Find returns the records matching the filter, in parse order, capped at
// the filter's limit.
func (c *Collection) Find(f Filter) []Record {
	limit := f.Limit
	if limit <= 0 {
		limit = constants.LookupResultLimit
	}

	uf := strings.ToUpper(strings.TrimSpace(f.UF))
	name := strings.ToLower(strings.TrimSpace(f.NameContains))
	code := strings.TrimSpace(f.Code)

	var matches []Record
	for _, r := range c.records {
		if uf != "" && r.UF != uf {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(r.PreferredName()), name) {
			continue
		}
		if code != "" && r.TOM != code && r.IBGE != code {
			continue
		}
		matches = append(matches, r)
		if len(matches) >= limit {
			break
		}
	}
	return matches
}
