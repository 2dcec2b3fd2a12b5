package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openmuni/munimap/internal/cmd/emoji"
	"github.com/openmuni/munimap/pkg/snapshot"
)

var (
	diffReportDir string
	diffDryRun    bool
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <base> <new>",
	Short: "Compare two snapshot files and report line-level changes",
	Long: `Diff treats each snapshot as a set of raw text lines and reports
which lines were added and which were removed. Lines are compared whole;
a change to any field of a record shows up as one removal plus one
addition.

Unless --dry-run is set, a change report named changes-<timestamp>.csv
is written when any differences are found.`,
	Example: `  munimap diff municipios-base.csv municipios-novo.csv
  munimap diff old.csv new.csv --dry-run
  munimap diff old.csv new.csv --report-dir ./reports`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffReportDir, "report-dir", ".", "Directory for the change report")
	diffCmd.Flags().BoolVar(&diffDryRun, "dry-run", false, "Print changes without writing a report")
}

func runDiff(_ *cobra.Command, args []string) error {
	base, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}
	updated, err := snapshot.Load(args[1])
	if err != nil {
		return err
	}

	changes := snapshot.Diff(base, updated)
	if !changes.HasChanges() {
		fmt.Printf("%s No changes detected\n", emoji.Success)
		return nil
	}

	// Additions first, matching report row order
	for _, line := range changes.Added {
		fmt.Printf("+;%s\n", line)
	}
	for _, line := range changes.Removed {
		fmt.Printf("-;%s\n", line)
	}
	fmt.Printf("\n%s\n", changes.String())

	if diffDryRun {
		return nil
	}

	reportPath := filepath.Join(diffReportDir, snapshot.ReportFilename(time.Now()))
	if err := snapshot.WriteReport(reportPath, changes); err != nil {
		return err
	}
	fmt.Printf("%s Report written to %s\n", emoji.Report, reportPath)

	return nil
}
