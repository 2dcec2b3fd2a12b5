package munimap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/manifest"
)

const baseSnapshot = `TOM;IBGE;Nome TOM;Nome IBGE;UF
0001;5300108;Brasília;Brasília;DF
7107;3550308;São Paulo;São Paulo;SP
6291;3538709;Piracicaba;Piracicaba;SP
9701;9999991;Posto Antártico;Posto Antártico;EX
`

// newSnapshot drops Piracicaba and gains Santos.
const newSnapshot = `TOM;IBGE;Nome TOM;Nome IBGE;UF
0001;5300108;Brasília;Brasília;DF
7107;3550308;São Paulo;São Paulo;SP
6237;3548500;Santos;Santos;SP
9701;9999991;Posto Antártico;Posto Antártico;EX
`

// fixedClock pins report filenames and elapsed measurement.
func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 1, 15, 15, 45, 0, 0, time.UTC)
	}
}

// newTestPipeline wires a pipeline against tmp-dir paths with fast
// derivation parameters.
func newTestPipeline(t *testing.T, dir string, extra ...Option) *Pipeline {
	t.Helper()

	opts := []Option{
		WithBasePath(filepath.Join(dir, "municipios-base.csv")),
		WithNewPath(filepath.Join(dir, "municipios-novo.csv")),
		WithOutputDir(filepath.Join(dir, "out")),
		WithReportDir(dir),
		WithIterations(25),
		WithKeyLength(16),
		WithClock(fixedClock()),
	}
	opts = append(opts, extra...)

	p, err := New(opts...)
	require.NoError(t, err)
	return p
}

func writeSnapshot(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPipelineFirstRun(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, filepath.Join(dir, "municipios-novo.csv"), newSnapshot)

	p := newTestPipeline(t, dir)
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.FirstRun)
	assert.False(t, result.HasChanges())
	assert.Empty(t, result.ReportPath)

	// The fetched data is frozen as the new base
	baseData, err := os.ReadFile(filepath.Join(dir, "municipios-base.csv"))
	require.NoError(t, err)
	assert.Equal(t, newSnapshot, string(baseData))

	// Header skipped, EX parsed but not exported
	assert.Equal(t, 4, result.Parsed)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 3, result.Exported)
	assert.Equal(t, 1, result.Extraterritorial)
	assert.Equal(t, map[string]int{"DF": 1, "SP": 2}, result.ByRegion)

	for _, name := range []string{
		"municipios-DF.csv", "municipios-DF.json", "municipios-DF.bin",
		"municipios-SP.csv", "municipios-SP.json", "municipios-SP.bin",
	} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "out", "municipios-EX.csv"))
}

func TestPipelineDetectsChanges(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, filepath.Join(dir, "municipios-base.csv"), baseSnapshot)
	writeSnapshot(t, filepath.Join(dir, "municipios-novo.csv"), newSnapshot)

	p := newTestPipeline(t, dir)

	var added, removed []string
	p.OnLineAdded(func(line string) { added = append(added, line) })
	p.OnLineRemoved(func(line string) { removed = append(removed, line) })

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.FirstRun)
	assert.True(t, result.HasChanges())
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Removed)

	assert.Equal(t, []string{"6237;3548500;Santos;Santos;SP"}, added)
	assert.Equal(t, []string{"6291;3538709;Piracicaba;Piracicaba;SP"}, removed)

	// Report carries raw lines verbatim, additions first
	wantReport := filepath.Join(dir, "changes-20260115-154500.csv")
	assert.Equal(t, wantReport, result.ReportPath)
	data, err := os.ReadFile(wantReport)
	require.NoError(t, err)
	want := "CHANGE;LINE\n" +
		"+;6237;3548500;Santos;Santos;SP\n" +
		"-;6291;3538709;Piracicaba;Piracicaba;SP\n"
	assert.Equal(t, want, string(data))

	// The base stays frozen across runs
	baseData, err := os.ReadFile(filepath.Join(dir, "municipios-base.csv"))
	require.NoError(t, err)
	assert.Equal(t, baseSnapshot, string(baseData))
}

func TestPipelineNoChanges(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, filepath.Join(dir, "municipios-base.csv"), baseSnapshot)
	writeSnapshot(t, filepath.Join(dir, "municipios-novo.csv"), baseSnapshot)

	p := newTestPipeline(t, dir)
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.HasChanges())
	assert.Empty(t, result.ReportPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), "changes-")
	}
}

func TestPipelineFetchesSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(newSnapshot))
	}))
	defer server.Close()

	dir := t.TempDir()
	p := newTestPipeline(t, dir, WithSourceURL(server.URL))

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Parsed)

	data, err := os.ReadFile(filepath.Join(dir, "municipios-novo.csv"))
	require.NoError(t, err)
	assert.Equal(t, newSnapshot, string(data))
}

func TestPipelineSourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dir := t.TempDir()
	p := newTestPipeline(t, dir, WithSourceURL(server.URL))

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestPipelineMissingNewSnapshot(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSnapshotMissing)
}

func TestPipelineWritesManifest(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, filepath.Join(dir, "municipios-base.csv"), baseSnapshot)
	writeSnapshot(t, filepath.Join(dir, "municipios-novo.csv"), newSnapshot)

	manifestPath := filepath.Join(dir, "out", "run.yaml")
	p := newTestPipeline(t, dir, WithManifestPath(manifestPath))

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	m, err := manifest.Read(manifestPath)
	require.NoError(t, err)

	assert.Equal(t, result.RunID, m.RunID)
	assert.False(t, m.FirstRun)
	assert.Equal(t, 4, m.Records.Parsed)
	assert.Equal(t, 3, m.Records.Exported)
	assert.Equal(t, 1, m.Records.Extraterritorial)
	assert.Equal(t, 1, m.Diff.Added)
	assert.Equal(t, 1, m.Diff.Removed)
	assert.Equal(t, result.ReportPath, m.ReportPath)

	require.Len(t, m.Groups, 2)
	assert.Equal(t, "DF", m.Groups[0].UF)
	assert.Equal(t, 1, m.Groups[0].Records)
	assert.Len(t, m.Groups[0].Files, 3)
	assert.Equal(t, "SP", m.Groups[1].UF)
	assert.Equal(t, 2, m.Groups[1].Records)
}

func TestPipelineRegionHook(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, filepath.Join(dir, "municipios-novo.csv"), newSnapshot)

	p := newTestPipeline(t, dir)

	got := make(map[string]int)
	p.OnRegionExported(func(uf string, records int) { got[uf] = records })

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"DF": 1, "SP": 2}, got)
}

func TestNewOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero iterations", WithIterations(0)},
		{"negative key length", WithKeyLength(-1)},
		{"empty base path", WithBasePath("")},
		{"empty output dir", WithOutputDir("")},
		{"nil clock", WithClock(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}
