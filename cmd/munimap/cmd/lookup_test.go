package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuni/munimap/internal/cmd/globals"
	"github.com/openmuni/munimap/pkg/registry"
)

func testCollection() *registry.Collection {
	return registry.NewCollection(
		registry.Record{TOM: "0001", IBGE: "5300108", NameTOM: "Brasília", NameIBGE: "Brasília", UF: "DF"},
		registry.Record{TOM: "7107", IBGE: "3550308", NameTOM: "São Paulo", NameIBGE: "São Paulo", UF: "SP"},
		registry.Record{TOM: "9701", IBGE: "9999991", NameTOM: "Posto Antártico", NameIBGE: "Posto Antártico", UF: "EX"},
	)
}

func withGlobalFlags(t *testing.T, flags *globals.Flags) {
	t.Helper()
	prev := globalFlags
	globalFlags = flags
	t.Cleanup(func() { globalFlags = prev })
}

func TestInteractiveLookupTerminatesOnEmptyRegion(t *testing.T) {
	withGlobalFlags(t, &globals.Flags{Output: "json"})

	// One full query, then an empty region ends the session
	in := strings.NewReader("DF\n\n\n\n")
	err := interactiveLookup(in, testCollection())
	require.NoError(t, err)
}

func TestInteractiveLookupTerminatesOnEOF(t *testing.T) {
	withGlobalFlags(t, &globals.Flags{Output: "json"})

	err := interactiveLookup(strings.NewReader(""), testCollection())
	require.NoError(t, err)
}

func TestStringSettingPrefersFlag(t *testing.T) {
	assert.Equal(t, "flagged", stringSetting("flagged", "source_url"))
	assert.Equal(t, "", stringSetting("", "definitely_unset_key"))
}
