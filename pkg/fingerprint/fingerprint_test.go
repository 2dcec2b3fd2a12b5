package fingerprint_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/fingerprint"
	"github.com/openmuni/munimap/pkg/registry"
)

var brasilia = registry.Record{
	TOM:      "0001",
	IBGE:     "5300108",
	NameTOM:  "Brasília",
	NameIBGE: "Brasília",
	UF:       "DF",
}

func TestDeriveDeterminism(t *testing.T) {
	first := fingerprint.Derive(brasilia, constants.DefaultHashIterations, constants.DefaultHashLength)
	second := fingerprint.Derive(brasilia, constants.DefaultHashIterations, constants.DefaultHashLength)

	assert.Equal(t, first, second)
}

func TestDeriveOutputShape(t *testing.T) {
	hash := fingerprint.Derive(brasilia, constants.DefaultHashIterations, constants.DefaultHashLength)

	// 32 derived bytes encode to 64 lower-case hex characters.
	assert.Len(t, hash, 64)
	raw, err := hex.DecodeString(hash)
	require.NoError(t, err)
	assert.Len(t, raw, constants.DefaultHashLength)
}

func TestDeriveKeyLength(t *testing.T) {
	hash := fingerprint.Derive(brasilia, 1000, 16)

	assert.Len(t, hash, 32)
}

func TestDeriveSensitivity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(registry.Record) registry.Record
	}{
		{"tribunal code", func(r registry.Record) registry.Record { r.TOM = "0002"; return r }},
		{"national code", func(r registry.Record) registry.Record { r.IBGE = "5300109"; return r }},
		{"tribunal name", func(r registry.Record) registry.Record { r.NameTOM = "Brasilia"; return r }},
		{"national name", func(r registry.Record) registry.Record { r.NameIBGE = "Brasilia"; return r }},
		{"region", func(r registry.Record) registry.Record { r.UF = "GO"; return r }},
	}

	base := fingerprint.Derive(brasilia, 1000, 32)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := fingerprint.Derive(tt.mutate(brasilia), 1000, 32)
			assert.NotEqual(t, base, changed)
		})
	}
}

func TestDeriveParameterSensitivity(t *testing.T) {
	assert.NotEqual(t,
		fingerprint.Derive(brasilia, 1000, 32),
		fingerprint.Derive(brasilia, 2000, 32),
		"iteration count must change the derived key")
}

func TestSalt(t *testing.T) {
	t.Run("deterministic from national code and pepper", func(t *testing.T) {
		expected := []byte("5300108" + constants.FingerprintPepper)

		assert.Equal(t, expected, fingerprint.Salt(brasilia))
	})

	t.Run("identical national codes share salt regardless of other fields", func(t *testing.T) {
		other := registry.Record{
			TOM:      "9999",
			IBGE:     brasilia.IBGE,
			NameTOM:  "Outra",
			NameIBGE: "Outra",
			UF:       "GO",
		}

		assert.Equal(t, fingerprint.Salt(brasilia), fingerprint.Salt(other))
	})

	t.Run("different national codes differ", func(t *testing.T) {
		other := brasilia
		other.IBGE = "3550308"

		assert.NotEqual(t, fingerprint.Salt(brasilia), fingerprint.Salt(other))
	})
}
