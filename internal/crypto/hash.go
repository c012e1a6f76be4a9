// this file contains the digest functions used to fingerprint certificates
//
// certificate field sets are serialized to canonical JSON (RFC 8785) before
// hashing so that the combined hash is deterministic across processes and
// restarts - the combined hash is the certificate's on-chain identity and the
// duplicate-issuance check depends on identical fields always producing the
// same digest.

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// HashString calculates the SHA-256 digest of a string and returns it as a
// hex string. No salt, no randomness: the same input always yields the same
// output.
func HashString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// CanonicalizeJSON converts JSON to canonical form per RFC 8785.
// This ensures consistent hashing of JSON documents regardless of the key
// order or whitespace the encoder happened to produce.
//
// If the input is not valid JSON, an error is returned (handled by jcs library).
func CanonicalizeJSON(jsonData []byte) ([]byte, error) {
	return jcs.Transform(jsonData)
}

// HashJSON calculates the SHA-256 digest of the canonical JSON serialization
// of v and returns it as a hex string.
func HashJSON(v any) (string, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return "", WrapValidationError(err, "failed to marshal value for hashing")
	}

	canonical, err := CanonicalizeJSON(jsonBytes)
	if err != nil {
		return "", WrapValidationError(err, "failed to canonicalize value for hashing")
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// ValidateHashHex checks that a string is a well-formed SHA-256 hex digest
// (64 lowercase hex characters). Used before sending a hash to the ledger.
func ValidateHashHex(hash string) error {
	if len(hash) != sha256.Size*2 {
		return NewValidationError(fmt.Sprintf("hash must be %d hex characters, got %d", sha256.Size*2, len(hash)))
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return WrapValidationError(err, "hash is not valid hex")
	}
	return nil
}
