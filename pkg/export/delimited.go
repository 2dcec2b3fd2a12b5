package export

import (
	"bufio"
	"os"
	"strings"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
)

// delimitedHeader is the column row of every per-region delimited file.
var delimitedHeader = []string{"TOM", "IBGE", "NomeTOM", "NomeIBGE", "UF", "Hash"}

// writeDelimited writes the semicolon-delimited rendition of a group:
// header row, then one row per record with the fingerprint as the final
// column. UTF-8, no byte-order marker. Rows are plain field joins, never
// CSV-quoted: sanitized fields cannot contain the delimiter, and names
// carrying double quotes must reach disk byte for byte.
func writeDelimited(path string, rows []Row) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	w := bufio.NewWriterSize(file, constants.WriteBufferSize)

	if _, werr := w.WriteString(strings.Join(delimitedHeader, constants.FieldSeparator) + "\n"); werr != nil {
		return errors.WrapIO("write", path, werr)
	}
	for _, row := range rows {
		record := append(row.Fields(), row.Hash)
		if _, werr := w.WriteString(strings.Join(record, constants.FieldSeparator) + "\n"); werr != nil {
			return errors.WrapIO("write", path, werr)
		}
	}

	return errors.WrapIO("write", path, w.Flush())
}
