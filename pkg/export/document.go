package export

import (
	"encoding/json"
	"os"

	"github.com/openmuni/munimap/pkg/errors"
)

// writeDocument writes the JSON rendition of a group: an array of objects
// with the fields Tom, Ibge, NomeTom, NomeIbge, Uf and Hash, in the same
// record order as the other formats, two-space indented.
func writeDocument(path string, rows []Row) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if eerr := encoder.Encode(rows); eerr != nil {
		return errors.WrapIO("write", path, eerr)
	}
	return nil
}
