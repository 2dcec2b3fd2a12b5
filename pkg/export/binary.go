package export

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/registry"
)

// Binary layout: a little-endian int32 record count, then for each record
// the five fields in canonical order (TOM, IBGE, NameTOM, NameIBGE, UF),
// each encoded as an unsigned varint byte length followed by the UTF-8
// bytes. No hash, no padding, no trailing data.

// writeBinary writes the binary rendition of a group.
func writeBinary(path string, rows []Row) (err error) {
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

	if werr := binary.Write(w, binary.LittleEndian, int32(len(rows))); werr != nil {
		return errors.WrapIO("write", path, werr)
	}

	var scratch [binary.MaxVarintLen64]byte
	for _, row := range rows {
		for _, field := range row.Record.Fields() {
			n := binary.PutUvarint(scratch[:], uint64(len(field)))
			if _, werr := w.Write(scratch[:n]); werr != nil {
				return errors.WrapIO("write", path, werr)
			}
			if _, werr := w.WriteString(field); werr != nil {
				return errors.WrapIO("write", path, werr)
			}
		}
	}

	return errors.WrapIO("write", path, w.Flush())
}

// ReadBinary decodes a binary group file back into records. It is the
// exact inverse of the export layout, letting consumers verify that the
// binary rendition corresponds row for row with the textual ones.
func ReadBinary(path string) ([]registry.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer file.Close()

	r := bufio.NewReader(file)

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.NewParseError("binary", path, "record count", err)
	}
	if count < 0 {
		return nil, errors.NewParseError("binary", path, "negative record count", nil)
	}

	records := make([]registry.Record, 0, count)
	for i := int32(0); i < count; i++ {
		var fields [5]string
		for j := range fields {
			length, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, errors.NewParseError("binary", path, "field length", err)
			}
			buf := make([]byte, length)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, errors.NewParseError("binary", path, "field bytes", err)
			}
			fields[j] = string(buf)
		}
		records = append(records, registry.Record{
			TOM:      fields[0],
			IBGE:     fields[1],
			NameTOM:  fields[2],
			NameIBGE: fields[3],
			UF:       fields[4],
		})
	}

	return records, nil
}
