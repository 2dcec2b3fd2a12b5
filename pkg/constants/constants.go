// Package constants provides shared constants used throughout the munimap codebase.
// This includes derivation parameters, timeouts, file permissions, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Key derivation constants define the fingerprint pipeline parameters.
const (
	// DefaultHashIterations is the PBKDF2 round count used for record fingerprints.
	DefaultHashIterations = 50000

	// DefaultHashLength is the derived key length in bytes (hex output doubles it).
	DefaultHashLength = 32

	// FingerprintPepper is the fixed dataset-wide constant appended to the IBGE
	// code when building the per-record salt. It must never change between
	// releases: fingerprints are only comparable across runs while the pepper,
	// iteration count and key length stay fixed.
	FingerprintPepper = "munimap/registry:v1"

	// FieldSeparator joins record fields into password material and delimits
	// columns in snapshot and export files. Sanitized field content can never
	// contain it, because fields are produced by splitting on it.
	FieldSeparator = ";"
)

// Timeout constants define various timeout durations used in the application.
const (
	// DefaultHTTPTimeout is the standard timeout for the snapshot download.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations.
	DefaultTimeout = 10 * time.Second

	// PipelineTimeout bounds a full sync run, derivation included.
	PipelineTimeout = 30 * time.Minute
)

// File permission constants define standard Unix file permissions.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x).
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--).
	FilePermissions = 0644
)

// Limit constants define batch sizes and result caps.
const (
	// ProgressBatchSize is how many records are exported between progress signals.
	ProgressBatchSize = 50

	// LookupResultLimit caps the number of records an interactive query returns.
	LookupResultLimit = 50

	// WriteBufferSize is the default buffer size for buffered file writers.
	WriteBufferSize = 4096
)

// Region constants.
const (
	// RegionCodeLength is the expected length of a UF code.
	RegionCodeLength = 2

	// ExtraterritorialRegion marks records outside any UF grouping. They are
	// kept in memory for lookups but excluded from exports.
	ExtraterritorialRegion = "EX"
)

// Default file layout.
const (
	// DefaultBaseSnapshot is the frozen prior snapshot filename.
	DefaultBaseSnapshot = "municipios-base.csv"

	// DefaultNewSnapshot is the freshly fetched snapshot filename.
	DefaultNewSnapshot = "municipios-novo.csv"

	// DefaultOutputDir is where per-region exports are written.
	DefaultOutputDir = "out"

	// ReportTimeLayout is the timestamp embedded in change-report filenames.
	ReportTimeLayout = "20060102-150405"
)
