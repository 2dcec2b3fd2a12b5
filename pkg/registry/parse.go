package registry

import (
	"strings"

	"github.com/openmuni/munimap/pkg/constants"
)

// ParseLine converts one raw snapshot line into a Record. It returns false
// when the line is blank or yields fewer than five fields after splitting
// on the dataset delimiter; such lines are discarded, not errors. Extra
// fields beyond the fifth are ignored.
func ParseLine(line string) (Record, bool) {
	if strings.TrimSpace(line) == "" {
		return Record{}, false
	}

	fields := strings.Split(line, constants.FieldSeparator)
	if len(fields) < 5 {
		return Record{}, false
	}

	return Record{
		TOM:      sanitize(fields[0]),
		IBGE:     sanitize(fields[1]),
		NameTOM:  sanitize(fields[2]),
		NameIBGE: sanitize(fields[3]),
		UF:       strings.ToUpper(sanitize(fields[4])),
	}, true
}

// ParseLines builds a Collection from raw snapshot lines. A header row is
// auto-detected on the first line and skipped. The second return value is
// the number of discarded lines (blank or too few fields).
func ParseLines(lines []string) (*Collection, int) {
	records := make([]Record, 0, len(lines))
	skipped := 0

	for i, line := range lines {
		if i == 0 && isHeader(line) {
			continue
		}
		record, ok := ParseLine(line)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	return NewCollection(records...), skipped
}

// isHeader detects the optional header row by the presence of the two code
// column names in the first two fields, case-insensitive.
func isHeader(line string) bool {
	fields := strings.Split(line, constants.FieldSeparator)
	if len(fields) < 2 {
		return false
	}
	return strings.Contains(strings.ToLower(fields[0]), "tom") &&
		strings.Contains(strings.ToLower(fields[1]), "ibge")
}
