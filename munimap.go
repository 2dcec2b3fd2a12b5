// Package munimap is the entry point for the municipality registry pipeline.
// It fetches the national municipality snapshot, diffs it against the frozen
// base snapshot, reports line-level changes, and writes a per-region,
// multi-format rendition of the registry with a derived fingerprint per
// record.
//
// Example usage:
//
//	// Run the pipeline against an already-downloaded snapshot
//	p, err := munimap.New(
//	    munimap.WithBasePath("data/municipios-base.csv"),
//	    munimap.WithNewPath("data/municipios-novo.csv"),
//	    munimap.WithOutputDir("out"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := p.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
//
//	// Fetch the snapshot first, write a run manifest, observe changes
//	p, err = munimap.New(
//	    munimap.WithSourceURL("https://example.org/municipios.csv"),
//	    munimap.WithManifestPath("out/run.yaml"),
//	)
//	p.OnLineAdded(func(line string) {
//	    fmt.Println("new:", line)
//	})
package munimap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	pkgerrors "errors"

	"github.com/openmuni/munimap/internal/fetch"
	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/export"
	"github.com/openmuni/munimap/pkg/logging"
	"github.com/openmuni/munimap/pkg/manifest"
	"github.com/openmuni/munimap/pkg/registry"
	"github.com/openmuni/munimap/pkg/snapshot"
)

// Fetcher downloads the registry snapshot to a local path. The production
// implementation is internal/fetch.Client; tests substitute their own.
type Fetcher interface {
	Download(ctx context.Context, url, destPath string) error
}

// Pipeline orchestrates one fetch-diff-report-export cycle.
type Pipeline struct {
	config  *config
	fetcher Fetcher

	// Event hooks for diff and export milestones
	hooks *hooks
}

// New creates a Pipeline with the given options.
func New(opts ...Option) (*Pipeline, error) {
	cfg, err := defaultConfig().apply(opts...)
	if err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	p := &Pipeline{
		config:  cfg,
		fetcher: cfg.fetcher,
		hooks:   newHooks(),
	}
	if p.fetcher == nil {
		p.fetcher = fetch.New()
	}
	return p, nil
}

// Run executes the pipeline once. Fatal errors abort the run and leave any
// partially written outputs in place; malformed snapshot rows are skipped
// and counted, never fatal.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Stamp the run identity on the context logger
	run := manifest.New()
	started := p.config.clock()
	if p.config.logger != nil {
		ctx = logging.WithLogger(ctx, p.config.logger)
	}
	ctx = logging.WithRunID(ctx, run.RunID)
	log := logging.Ctx(ctx)

	// Step 2: Fetch the new snapshot when a source is configured
	if p.config.sourceURL != "" {
		log.Info().
			Str("url", p.config.sourceURL).
			Str("dest", p.config.newPath).
			Msg("Fetching snapshot")
		if err := p.fetcher.Download(ctx, p.config.sourceURL, p.config.newPath); err != nil {
			return nil, err
		}
	}

	// Step 3: Load the new snapshot
	current, err := snapshot.Load(p.config.newPath)
	if err != nil {
		return nil, err
	}

	// Step 4: Load the base snapshot; on first run the fetched data
	// becomes the base and there is nothing to diff against
	changes := &snapshot.Changeset{}
	firstRun := false
	base, err := snapshot.Load(p.config.basePath)
	switch {
	case err == nil:
		// Step 5: Diff new against base
		changes = snapshot.Diff(base, current)
	case pkgerrors.Is(err, errors.ErrSnapshotMissing):
		firstRun = true
		log.Info().
			Str("base", p.config.basePath).
			Msg("Base snapshot missing, freezing fetched data as base")
		if err := copyFile(p.config.newPath, p.config.basePath); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// Step 6: Write the change report when something changed
	var reportPath string
	if changes.HasChanges() {
		log.Info().
			Int("added", len(changes.Added)).
			Int("removed", len(changes.Removed)).
			Msg("Changes detected")
		reportPath = filepath.Join(p.config.reportDir, snapshot.ReportFilename(p.config.clock()))
		if err := snapshot.WriteReport(reportPath, changes); err != nil {
			return nil, err
		}
		p.hooks.triggerDiff(changes)
	} else {
		log.Info().Msg("No changes detected")
	}

	// Step 7: Parse the new snapshot into records
	collection, skipped := registry.ParseLines(current.Lines)
	if skipped > 0 {
		log.Warn().
			Int("skipped", skipped).
			Msg("Snapshot rows skipped during parse")
	}

	// Step 8: Export per-region file sets
	exporter := export.New(p.config.outputDir,
		export.WithIterations(p.config.iterations),
		export.WithKeyLength(p.config.keyLength),
		export.WithProgress(p.progress()),
	)
	summary, err := exporter.Export(collection.Records())
	if err != nil {
		return nil, err
	}

	// Step 9: Assemble the result
	finished := p.config.clock()
	result := &Result{
		RunID:            run.RunID,
		FirstRun:         firstRun,
		Parsed:           collection.Len(),
		Skipped:          skipped,
		Exported:         summary.Records,
		Extraterritorial: collection.Len() - len(collection.Exportable()),
		Added:            len(changes.Added),
		Removed:          len(changes.Removed),
		ReportPath:       reportPath,
		Files:            summary.Files,
		ByRegion:         summary.ByRegion,
		Elapsed:          finished.Sub(started),
	}

	// Step 10: Write the run manifest when configured
	if p.config.manifestPath != "" {
		fillManifest(run, p.config, result, started, finished)
		if err := run.Write(p.config.manifestPath); err != nil {
			return nil, err
		}
		log.Debug().
			Str("path", p.config.manifestPath).
			Msg("Run manifest written")
	}

	log.Info().
		Int("records", result.Exported).
		Int("regions", len(result.ByRegion)).
		Dur("elapsed", result.Elapsed).
		Msg("Pipeline run completed")

	return result, nil
}

// progress merges the configured progress callback with the region hook so
// both observe export completion events.
func (p *Pipeline) progress() export.ProgressFunc {
	return func(pr export.Progress) {
		if pr.Done {
			p.hooks.triggerRegionExported(pr.UF, pr.Total)
		}
		if p.config.progress != nil {
			p.config.progress(pr)
		}
	}
}

// fillManifest copies run outcomes into the manifest document.
func fillManifest(run *manifest.Manifest, cfg *config, result *Result, started, finished time.Time) {
	run.StartedAt = started
	run.FinishedAt = finished
	run.SourceURL = cfg.sourceURL
	run.BasePath = cfg.basePath
	run.NewPath = cfg.newPath
	run.FirstRun = result.FirstRun
	run.Records = manifest.Counts{
		Parsed:           result.Parsed,
		Skipped:          result.Skipped,
		Exported:         result.Exported,
		Extraterritorial: result.Extraterritorial,
	}
	run.Diff = manifest.Totals{
		Added:   result.Added,
		Removed: result.Removed,
	}
	run.ReportPath = result.ReportPath

	ufs := make([]string, 0, len(result.ByRegion))
	for uf := range result.ByRegion {
		ufs = append(ufs, uf)
	}
	sort.Strings(ufs)
	for _, uf := range ufs {
		var files []string
		for _, f := range result.Files {
			if strings.HasPrefix(filepath.Base(f), "municipios-"+uf+".") {
				files = append(files, f)
			}
		}
		run.Groups = append(run.Groups, manifest.Group{
			UF:      uf,
			Records: result.ByRegion[uf],
			Files:   files,
		})
	}
}

// copyFile duplicates src to dst, creating parent directories as needed.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("read", src, err)
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", src, cerr)
		}
	}()

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.WrapIO("create", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.WrapIO("write", dst, err)
	}
	return nil
}
