// Package snapshot reads municipality registry dumps and detects changes
// between them using whole-line set semantics.
//
// A snapshot is a flat text file, one registry row per line. Two snapshots
// participate in a run: the frozen base (trusted prior state) and the
// freshly fetched new dump. Diffing treats both as unordered line sets.
package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/logging"
)

// Snapshot is the line-level content of one registry dump.
type Snapshot struct {
	Path  string   // source file path
	Lines []string // raw lines in file order, line endings stripped
}

// Load reads a snapshot file into memory. Content is decoded as UTF-8;
// files carrying the legacy single-byte encoding fall back to
// Windows-1252. Both LF and CRLF line endings are accepted. An empty file
// yields an empty snapshot, not an error.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrSnapshotMissing, path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	if !utf8.Valid(data) {
		decoded, derr := charmap.Windows1252.NewDecoder().Bytes(data)
		if derr != nil {
			return nil, &errors.DecodeError{
				File:      path,
				Encodings: []string{"utf-8", "windows-1252"},
				Err:       derr,
			}
		}
		logging.Debug().Str("path", path).Msg("Snapshot decoded with Windows-1252 fallback")
		data = decoded
	}

	lines := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("scan", path, err)
	}

	return &Snapshot{Path: path, Lines: lines}, nil
}
