package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/snapshot"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("utf-8 file", func(t *testing.T) {
		path := writeFile(t, "municipios.csv", []byte("0001;5300108;Brasília;Brasília;DF\n7107;3550308;São Paulo;São Paulo;SP\n"))

		snap, err := snapshot.Load(path)

		require.NoError(t, err)
		assert.Equal(t, path, snap.Path)
		assert.Equal(t, []string{
			"0001;5300108;Brasília;Brasília;DF",
			"7107;3550308;São Paulo;São Paulo;SP",
		}, snap.Lines)
	})

	t.Run("crlf line endings", func(t *testing.T) {
		path := writeFile(t, "crlf.csv", []byte("A;1\r\nB;2\r\n"))

		snap, err := snapshot.Load(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"A;1", "B;2"}, snap.Lines)
	})

	t.Run("no trailing newline", func(t *testing.T) {
		path := writeFile(t, "partial.csv", []byte("A;1\nB;2"))

		snap, err := snapshot.Load(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"A;1", "B;2"}, snap.Lines)
	})

	t.Run("empty file yields empty line set", func(t *testing.T) {
		path := writeFile(t, "empty.csv", nil)

		snap, err := snapshot.Load(path)

		require.NoError(t, err)
		assert.Empty(t, snap.Lines)
	})

	t.Run("windows-1252 fallback", func(t *testing.T) {
		// "São Paulo" with ã encoded as the single byte 0xE3
		raw := []byte("7107;3550308;S\xe3o Paulo;S\xe3o Paulo;SP\n")
		path := writeFile(t, "legacy.csv", raw)

		snap, err := snapshot.Load(path)

		require.NoError(t, err)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "7107;3550308;São Paulo;São Paulo;SP", snap.Lines[0])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := snapshot.Load(filepath.Join(t.TempDir(), "nope.csv"))

		assert.ErrorIs(t, err, errors.ErrSnapshotMissing)
	})
}
