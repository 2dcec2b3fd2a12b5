// Package fingerprint derives the deterministic per-record hash appended
// to exported registry rows.
//
// The derivation is intentionally reproducible: the salt comes from the
// record's national code plus a fixed dataset-wide pepper, never from a
// random source. Identical record content therefore yields an identical
// hash across runs, which lets consumers diff exported files. This is an
// idempotence property, not a password-storage scheme.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/registry"
)

// Derive computes the hex-encoded PBKDF2-SHA256 fingerprint of a record.
// Password material is the five registry fields joined by the dataset
// delimiter; sanitized fields cannot contain the delimiter because they
// originate from splitting on it, so the join is unambiguous. With the
// default key length the result is 64 lower-case hex characters.
func Derive(r registry.Record, iterations, keyLength int) string {
	password := strings.Join(r.Fields(), constants.FieldSeparator)
	key := pbkdf2.Key([]byte(password), Salt(r), iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}

// Salt returns the deterministic salt for a record: the UTF-8 bytes of its
// national registry code concatenated with the dataset pepper.
func Salt(r registry.Record) []byte {
	return []byte(r.IBGE + constants.FingerprintPepper)
}
