// Package export writes the partitioned multi-format rendition of the
// registry: one delimited, one JSON and one binary file per federative
// unit. All three files of a group enumerate records in the same sorted
// order, so row i refers to the same municipality in every format.
package export

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/fingerprint"
	"github.com/openmuni/munimap/pkg/logging"
	"github.com/openmuni/munimap/pkg/registry"
)

// groupFilePrefix is the common stem of every per-region output file.
const groupFilePrefix = "municipios-"

// Row pairs a record with its derived fingerprint. The delimited and JSON
// formats persist the hash; the binary format carries the five raw fields
// only.
type Row struct {
	registry.Record
	Hash string `json:"Hash" yaml:"hash"`
}

// Progress describes exporter advancement within one region group. It is
// emitted every constants.ProgressBatchSize records and once more, with
// Done set, when the group's files are on disk.
type Progress struct {
	UF        string // region group being exported
	Processed int    // records derived so far in this group
	Total     int    // group size
	Done      bool   // set on group completion
}

// ProgressFunc receives progress signals. Purely observational; errors are
// never reported through it.
type ProgressFunc func(Progress)

// Summary reports what one export run produced.
type Summary struct {
	Groups   int            // region groups written
	Records  int            // records across all groups
	Files    []string       // paths written, in creation order
	ByRegion map[string]int // record count per region
}

// Exporter writes the per-region file sets. Derivation and writing are
// sequential on purpose: per-record hashing is CPU-bound and wall-clock
// time is treated as a visible cost signal.
type Exporter struct {
	dir        string
	iterations int
	keyLength  int
	progress   ProgressFunc
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithIterations overrides the key derivation iteration count.
func WithIterations(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.iterations = n
		}
	}
}

// WithKeyLength overrides the derived key length in bytes.
func WithKeyLength(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.keyLength = n
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Exporter) {
		e.progress = fn
	}
}

// New creates an Exporter writing into dir.
func New(dir string, opts ...Option) *Exporter {
	e := &Exporter{
		dir:        dir,
		iterations: constants.DefaultHashIterations,
		keyLength:  constants.DefaultHashLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export groups the records by federative unit, derives each record's
// fingerprint and writes the three file formats per group. Groups are
// processed in sorted key order; the extraterritorial "EX" placeholder is
// excluded. Each group's files are opened, fully written and closed before
// the next group starts. A write error aborts the run; partial files are
// left behind, not rolled back.
func (e *Exporter) Export(records []registry.Record) (*Summary, error) {
	groups := groupByRegion(records)

	keys := make([]string, 0, len(groups))
	for uf := range groups {
		keys = append(keys, uf)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(e.dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", e.dir, err)
	}

	summary := &Summary{ByRegion: make(map[string]int, len(groups))}
	for _, uf := range keys {
		group := groups[uf]
		sortGroup(group)

		logging.Info().
			Str("region", uf).
			Int("records", len(group)).
			Msg("Exporting region")

		rows := e.deriveRows(uf, group)

		csvPath := e.groupPath(uf, "csv")
		if err := writeDelimited(csvPath, rows); err != nil {
			return nil, err
		}
		jsonPath := e.groupPath(uf, "json")
		if err := writeDocument(jsonPath, rows); err != nil {
			return nil, err
		}
		binPath := e.groupPath(uf, "bin")
		if err := writeBinary(binPath, rows); err != nil {
			return nil, err
		}

		summary.Groups++
		summary.Records += len(group)
		summary.Files = append(summary.Files, csvPath, jsonPath, binPath)
		summary.ByRegion[uf] = len(group)

		if e.progress != nil {
			e.progress(Progress{UF: uf, Processed: len(group), Total: len(group), Done: true})
		}
	}

	return summary, nil
}

// deriveRows computes the fingerprint of every record in the group,
// signalling progress at the batch interval.
func (e *Exporter) deriveRows(uf string, group []registry.Record) []Row {
	rows := make([]Row, len(group))
	for i, record := range group {
		rows[i] = Row{
			Record: record,
			Hash:   fingerprint.Derive(record, e.iterations, e.keyLength),
		}
		if e.progress != nil && (i+1)%constants.ProgressBatchSize == 0 {
			e.progress(Progress{UF: uf, Processed: i + 1, Total: len(group)})
		}
	}
	return rows
}

// groupPath returns the output path for one region and file extension,
// e.g. out/municipios-DF.csv.
func (e *Exporter) groupPath(uf, ext string) string {
	return filepath.Join(e.dir, groupFilePrefix+uf+"."+ext)
}

// groupByRegion buckets records by upper-cased federative unit, dropping
// the extraterritorial placeholder group.
func groupByRegion(records []registry.Record) map[string][]registry.Record {
	groups := make(map[string][]registry.Record)
	for _, r := range records {
		uf := strings.ToUpper(r.UF)
		if uf == constants.ExtraterritorialRegion {
			continue
		}
		groups[uf] = append(groups[uf], r)
	}
	return groups
}

// sortGroup orders a group by preferred name, case-insensitive ascending.
// The sort is stable so records with equal names keep their parse order.
func sortGroup(group []registry.Record) {
	sort.SliceStable(group, func(i, j int) bool {
		return strings.ToLower(group[i].PreferredName()) < strings.ToLower(group[j].PreferredName())
	})
}
