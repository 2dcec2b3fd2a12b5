package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
)

// ReportFilename returns the change-report file name for a run timestamp,
// e.g. "changes-20260115-154500.csv".
func ReportFilename(t time.Time) string {
	return "changes-" + t.Format(constants.ReportTimeLayout) + ".csv"
}

// WriteReport writes the changeset to path: a CHANGE;LINE header, then one
// +;<line> row per addition followed by one -;<line> row per removal.
// Lines are written verbatim. Callers skip the report entirely when the
// changeset is empty.
func WriteReport(path string, changeset *Changeset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	var report strings.Builder
	report.WriteString("CHANGE;LINE\n")
	for _, line := range changeset.Added {
		report.WriteString("+;")
		report.WriteString(line)
		report.WriteByte('\n')
	}
	for _, line := range changeset.Removed {
		report.WriteString("-;")
		report.WriteString(line)
		report.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(report.String()), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
