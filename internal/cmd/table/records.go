// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"sort"
	"strconv"

	"github.com/openmuni/munimap/internal/cmd/output"
	"github.com/openmuni/munimap/pkg/registry"
)

// Records converts registry records to table data with the canonical
// column layout.
func Records(records []registry.Record) output.Data {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.TOM, r.IBGE, r.NameTOM, r.NameIBGE, r.UF})
	}
	return output.Data{
		Headers: []string{"TOM", "IBGE", "Nome TOM", "Nome IBGE", "UF"},
		Rows:    rows,
	}
}

// Regions converts per-region record counts to table data, sorted by
// federative unit.
func Regions(byRegion map[string]int) output.Data {
	ufs := make([]string, 0, len(byRegion))
	for uf := range byRegion {
		ufs = append(ufs, uf)
	}
	sort.Strings(ufs)

	rows := make([][]string, 0, len(ufs))
	for _, uf := range ufs {
		rows = append(rows, []string{uf, strconv.Itoa(byRegion[uf])})
	}
	return output.Data{
		Headers: []string{"UF", "Records"},
		Rows:    rows,
	}
}
