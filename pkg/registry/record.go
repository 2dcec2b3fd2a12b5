// Package registry defines the municipality record model and the in-memory
// collection built from a snapshot of the national registry dataset.
//
// Each record carries the two code systems the dataset is keyed by (the
// tribunal TOM code and the national IBGE code), the name published by each
// registry, and the two-letter federative unit the municipality belongs to.
// Records are constructed once during parsing and are read-only afterwards.
package registry

import (
	"strings"
	"unicode"

	"github.com/openmuni/munimap/pkg/constants"
)

// Record is a single municipality registry entry.
type Record struct {
	TOM      string `json:"Tom" yaml:"tom"`            // Tribunal registry code
	IBGE     string `json:"Ibge" yaml:"ibge"`          // National registry code; diff/lookup key and salt seed
	NameTOM  string `json:"NomeTom" yaml:"nome_tom"`   // Name as published by the tribunal registry
	NameIBGE string `json:"NomeIbge" yaml:"nome_ibge"` // Name as published by the national registry
	UF       string `json:"Uf" yaml:"uf"`              // Two-letter federative unit code, upper case
}

// PreferredName returns the national registry name when present, falling
// back to the tribunal name. It is used for sorting and searching only and
// is never persisted as its own field.
func (r Record) PreferredName() string {
	if r.NameIBGE != "" {
		return r.NameIBGE
	}
	return r.NameTOM
}

// Fields returns the five registry fields in canonical order
// (TOM, IBGE, NameTOM, NameIBGE, UF). Fingerprint derivation and the
// binary export layout both follow this order.
func (r Record) Fields() []string {
	return []string{r.TOM, r.IBGE, r.NameTOM, r.NameIBGE, r.UF}
}

// Extraterritorial reports whether the record belongs to the placeholder
// "EX" region, which is excluded from export grouping.
func (r Record) Extraterritorial() bool {
	return r.UF == constants.ExtraterritorialRegion
}

// sanitize trims surrounding whitespace and strips control characters.
// Persisted outputs never carry nulls; an empty string stands in instead.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
