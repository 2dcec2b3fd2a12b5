package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openmuni/munimap/internal/cmd/emoji"
	"github.com/openmuni/munimap/internal/cmd/output"
	"github.com/openmuni/munimap/internal/cmd/table"
	"github.com/openmuni/munimap/pkg/export"
	"github.com/openmuni/munimap/pkg/registry"
	"github.com/openmuni/munimap/pkg/snapshot"
)

var (
	exportOut        string
	exportIterations int
	exportKeyLength  int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <snapshot>",
	Short: "Export a snapshot as per-region delimited, JSON and binary files",
	Long: `Export parses a snapshot file and writes one file set per federative
unit into the output directory: municipios-<UF>.csv, municipios-<UF>.json
and municipios-<UF>.bin. Every record carries a fingerprint derived from
its five fields; the binary format stores the raw fields only.

Records grouped under the extraterritorial placeholder "EX" are parsed
but never exported. No diffing happens; use sync for the full pipeline.`,
	Example: `  munimap export municipios-novo.csv
  munimap export municipios-novo.csv --out ./exports
  munimap export municipios-novo.csv --iterations 100000`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "out", "Export output directory")
	exportCmd.Flags().IntVar(&exportIterations, "iterations", 0, "Fingerprint derivation rounds (default: 50000)")
	exportCmd.Flags().IntVar(&exportKeyLength, "key-length", 0, "Derived key length in bytes (default: 32)")
}

func runExport(_ *cobra.Command, args []string) error {
	snap, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	collection, skipped := registry.ParseLines(snap.Lines)
	if skipped > 0 {
		fmt.Printf("%s  Skipped %d malformed or blank rows\n", emoji.Warning, skipped)
	}

	opts := []export.Option{}
	if exportIterations > 0 {
		opts = append(opts, export.WithIterations(exportIterations))
	}
	if exportKeyLength > 0 {
		opts = append(opts, export.WithKeyLength(exportKeyLength))
	}
	if !globalFlags.Quiet {
		opts = append(opts, export.WithProgress(printProgress))
	}

	exporter := export.New(exportOut, opts...)
	summary, err := exporter.Export(collection.Records())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	// Per-region counts in the configured output format
	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	var payload any = summary.ByRegion
	if format == output.FormatTable {
		payload = table.Regions(summary.ByRegion)
	}
	fmt.Println()
	if err := output.NewFormatter(format).Format(os.Stdout, payload); err != nil {
		return err
	}

	fmt.Printf("\n%s Exported %d records across %d regions (%d files)\n",
		emoji.Done, summary.Records, summary.Groups, len(summary.Files))

	return nil
}
