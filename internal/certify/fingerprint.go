package certify

// fingerprint.go maps a certificate's field set to the combined hash anchored
// on-chain. Each field is digested individually, then the combined hash is
// the digest of the canonical JSON serialization of the per-field digests.
// Identical fields always produce an identical combined hash; changing any
// single character in any field changes it.

import (
	"github.com/certs365/certify-server/internal/crypto"
)

// HashedFieldSet holds the individual digest of each certificate field.
// The keys mirror CertificateFields.
type HashedFieldSet struct {
	CertificateNumber string `json:"Certificate_Number"`
	Name              string `json:"name"`
	CourseName        string `json:"courseName"`
	GrantDate         string `json:"Grant_Date"`
	ExpirationDate    string `json:"Expiration_Date"`
}

// Fingerprint validates and canonicalizes the certificate fields, then
// computes the per-field digests and the combined hash.
//
// The returned CertificateFields carries the canonicalized dates - the
// combined hash is always computed over canonical dates so that the same
// calendar date fingerprints identically regardless of input format.
func Fingerprint(fields CertificateFields) (CertificateFields, HashedFieldSet, string, error) {
	if err := validateFields(fields); err != nil {
		return CertificateFields{}, HashedFieldSet{}, "", err
	}

	grantDate, err := CanonicalizeDate(fields.GrantDate)
	if err != nil {
		return CertificateFields{}, HashedFieldSet{}, "", err
	}

	expirationDate, err := CanonicalizeDate(fields.ExpirationDate)
	if err != nil {
		return CertificateFields{}, HashedFieldSet{}, "", err
	}

	canonical := CertificateFields{
		CertificateNumber: fields.CertificateNumber,
		Name:              fields.Name,
		CourseName:        fields.CourseName,
		GrantDate:         grantDate,
		ExpirationDate:    expirationDate,
	}

	hashed := HashedFieldSet{
		CertificateNumber: crypto.HashString(canonical.CertificateNumber),
		Name:              crypto.HashString(canonical.Name),
		CourseName:        crypto.HashString(canonical.CourseName),
		GrantDate:         crypto.HashString(canonical.GrantDate),
		ExpirationDate:    crypto.HashString(canonical.ExpirationDate),
	}

	combinedHash, err := crypto.HashJSON(hashed)
	if err != nil {
		return CertificateFields{}, HashedFieldSet{}, "", WrapInternalError(err, "failed to hash field set")
	}

	return canonical, hashed, combinedHash, nil
}

// validateFields checks that all five certificate fields are present and
// non-empty.
func validateFields(fields CertificateFields) error {
	missing := ""
	switch {
	case fields.CertificateNumber == "":
		missing = "Certificate_Number"
	case fields.Name == "":
		missing = "name"
	case fields.CourseName == "":
		missing = "courseName"
	case fields.GrantDate == "":
		missing = "Grant_Date"
	case fields.ExpirationDate == "":
		missing = "Expiration_Date"
	}
	if missing != "" {
		return NewValidationError("missing required field: " + missing)
	}
	return nil
}
