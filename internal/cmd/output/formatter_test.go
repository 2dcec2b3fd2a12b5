package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuni/munimap/internal/cmd/output"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format output.Format
		want   any
	}{
		{output.FormatJSON, &output.JSONFormatter{}},
		{output.FormatYAML, &output.YAMLFormatter{}},
		{output.FormatTable, &output.TableFormatter{}},
		{output.Format("unknown"), &output.TableFormatter{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.IsType(t, tt.want, output.NewFormatter(tt.format))
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &output.JSONFormatter{Indent: "  "}

	err := f.Format(&buf, map[string]string{"uf": "DF"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"uf":"DF"}`, buf.String())
	assert.Contains(t, buf.String(), "\n  \"uf\"", "indented output")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &output.YAMLFormatter{}

	err := f.Format(&buf, map[string]int{"records": 5570})

	require.NoError(t, err)
	assert.Equal(t, "records: 5570\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	t.Run("renders headers and rows", func(t *testing.T) {
		var buf bytes.Buffer
		f := &output.TableFormatter{}

		err := f.Format(&buf, output.Data{
			Headers: []string{"TOM", "IBGE", "NOME", "UF"},
			Rows: [][]string{
				{"0001", "5300108", "Brasília", "DF"},
			},
		})

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "TOM")
		assert.Contains(t, out, "5300108")
		assert.Contains(t, out, "Brasília")
	})

	t.Run("falls back to JSON for non-tabular data", func(t *testing.T) {
		var buf bytes.Buffer
		f := &output.TableFormatter{}

		err := f.Format(&buf, map[string]string{"status": "ok"})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
	})
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"table", "json", "yaml", "JSON", ""} {
		_, err := output.ParseFormat(valid)
		assert.NoError(t, err, valid)
	}

	_, err := output.ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, output.FormatYAML, output.DetectFormat("yaml"))
	assert.Equal(t, output.FormatJSON, output.DetectFormat("JSON"))
}
