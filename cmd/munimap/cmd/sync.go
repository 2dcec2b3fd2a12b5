package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openmuni/munimap"
	"github.com/openmuni/munimap/internal/cmd/emoji"
	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/export"
)

var (
	syncSource     string
	syncBase       string
	syncNew        string
	syncOut        string
	syncReportDir  string
	syncManifest   string
	syncIterations int
	syncKeyLength  int
	syncSkipFetch  bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the registry snapshot, report changes and export per-region files",
	Long: `Sync runs the full registry pipeline:

1. Download the national municipality snapshot (unless --skip-fetch)
2. Freeze it as the base snapshot on first run
3. Diff the new snapshot against the frozen base
4. Write a timestamped change report when lines were added or removed
5. Derive each record's fingerprint and write per-region exports in
   delimited, JSON and binary formats

The base snapshot stays frozen across runs; promote it manually by
replacing the base file when a new trusted state is agreed on.`,
	Example: `  munimap sync --source https://example.org/municipios.csv
  munimap sync --skip-fetch --new ./municipios-novo.csv
  munimap sync --out ./exports --report-dir ./reports
  munimap sync --manifest out/run.yaml`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncSource, "source", "s", "", "Snapshot download URL (default: MUNIMAP_SOURCE_URL)")
	syncCmd.Flags().StringVar(&syncBase, "base", "", "Base snapshot path (default: municipios-base.csv)")
	syncCmd.Flags().StringVar(&syncNew, "new", "", "New snapshot path (default: municipios-novo.csv)")
	syncCmd.Flags().StringVar(&syncOut, "out", "", "Export output directory (default: out)")
	syncCmd.Flags().StringVar(&syncReportDir, "report-dir", "", "Directory for change reports (default: working directory)")
	syncCmd.Flags().StringVar(&syncManifest, "manifest", "", "Write a YAML run manifest to this path")
	syncCmd.Flags().IntVar(&syncIterations, "iterations", 0, "Fingerprint derivation rounds (default: 50000)")
	syncCmd.Flags().IntVar(&syncKeyLength, "key-length", 0, "Derived key length in bytes (default: 32)")
	syncCmd.Flags().BoolVar(&syncSkipFetch, "skip-fetch", false, "Use the new snapshot already on disk instead of downloading")
}

func runSync(cmd *cobra.Command, _ []string) error {
	p, err := munimap.New(buildPipelineOptions()...)
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), constants.PipelineTimeout)
	defer cancel()

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	// Display results
	if result.FirstRun {
		fmt.Printf("%s First run: new snapshot frozen as base\n", emoji.Frozen)
	}
	if result.HasChanges() {
		fmt.Printf("%s Changes: %d added, %d removed\n", emoji.Changes, result.Added, result.Removed)
		fmt.Printf("%s Report: %s\n", emoji.Report, result.ReportPath)
	} else if !result.FirstRun {
		fmt.Printf("%s No changes detected\n", emoji.Success)
	}
	if result.Skipped > 0 {
		fmt.Printf("%s  Skipped %d malformed or blank rows\n", emoji.Warning, result.Skipped)
	}

	fmt.Printf("\n%s %s\n", emoji.Done, result.Summary())
	return nil
}

// buildPipelineOptions assembles pipeline options from flags, falling back
// to viper-bound config and environment values.
func buildPipelineOptions() []munimap.Option {
	var opts []munimap.Option

	source := syncSource
	if source == "" {
		source = viper.GetString("source_url")
	}
	if source != "" && !syncSkipFetch {
		opts = append(opts, munimap.WithSourceURL(source))
	}

	if path := stringSetting(syncBase, "base_snapshot"); path != "" {
		opts = append(opts, munimap.WithBasePath(path))
	}
	if path := stringSetting(syncNew, "new_snapshot"); path != "" {
		opts = append(opts, munimap.WithNewPath(path))
	}
	if dir := stringSetting(syncOut, "output_dir"); dir != "" {
		opts = append(opts, munimap.WithOutputDir(dir))
	}
	if dir := stringSetting(syncReportDir, "report_dir"); dir != "" {
		opts = append(opts, munimap.WithReportDir(dir))
	}
	if path := stringSetting(syncManifest, "manifest"); path != "" {
		opts = append(opts, munimap.WithManifestPath(path))
	}

	iterations := syncIterations
	if iterations == 0 {
		iterations = viper.GetInt("iterations")
	}
	if iterations != 0 {
		opts = append(opts, munimap.WithIterations(iterations))
	}

	keyLength := syncKeyLength
	if keyLength == 0 {
		keyLength = viper.GetInt("key_length")
	}
	if keyLength != 0 {
		opts = append(opts, munimap.WithKeyLength(keyLength))
	}

	if !globalFlags.Quiet {
		opts = append(opts, munimap.WithProgress(printProgress))
	}

	return opts
}

// stringSetting prefers the flag value, then the viper-bound setting.
func stringSetting(flag, key string) string {
	if flag != "" {
		return flag
	}
	return viper.GetString(key)
}

// printProgress renders export advancement on stdout.
func printProgress(p export.Progress) {
	if p.Done {
		fmt.Printf("  %s: %d records exported\n", p.UF, p.Total)
		return
	}
	fmt.Printf("  %s: %d/%d...\n", p.UF, p.Processed, p.Total)
}
