package certify

// types.go defines the certificate field set and the API request/response
// schemas. The JSON field names follow the wire format expected by existing
// clients (the issuance template tooling and the hosted verification page),
// so they are not idiomatic Go JSON names.

import "context"

// CertificateFields is the human-readable field set a certificate is issued
// from. All five fields must be present and non-empty before hashing; the
// date fields are canonicalized before the field set is fingerprinted.
type CertificateFields struct {
	CertificateNumber string `json:"Certificate_Number"`
	Name              string `json:"name"`
	CourseName        string `json:"courseName"`
	GrantDate         string `json:"Grant_Date"`
	ExpirationDate    string `json:"Expiration_Date"`
}

// IssueRequest is the POST /api/issue request body.
type IssueRequest struct {
	CertificateNumber string `json:"Certificate_Number" example:"C-2024-0001"`
	Name              string `json:"name" example:"Alice"`
	CourseName        string `json:"courseName" example:"Math"`
	GrantDate         string `json:"Grant_Date" example:"01/02/2024"`
	ExpirationDate    string `json:"Expiration_Date" example:"01/02/2025"`
}

// Fields returns the certificate field set from the request.
func (r IssueRequest) Fields() CertificateFields {
	return CertificateFields{
		CertificateNumber: r.CertificateNumber,
		Name:              r.Name,
		CourseName:        r.CourseName,
		GrantDate:         r.GrantDate,
		ExpirationDate:    r.ExpirationDate,
	}
}

// CertificateDetails echoes the issued certificate back to the caller along
// with the transaction reference and combined hash.
type CertificateDetails struct {
	TransactionHash   string `json:"Transaction_Hash"`
	CertificateHash   string `json:"Certificate_Hash"`
	CertificateNumber string `json:"Certificate_Number"`
	Name              string `json:"Name"`
	CourseName        string `json:"Course_Name"`
	GrantDate         string `json:"Grant_Date"`
	ExpirationDate    string `json:"Expiration_Date"`
}

// IssueResponse is the POST /api/issue response body.
type IssueResponse struct {
	// QRCodeImage is a PNG data URL encoding the verification link
	QRCodeImage string `json:"qrCodeImage"`

	// PolygonLink addresses the ledger explorer page for the commit transaction
	PolygonLink string `json:"polygonLink"`

	Details CertificateDetails `json:"details"`
}

// VerifyRequest is the POST /api/verify-decrypt request body. The caller
// obtains both values from the QR payload.
type VerifyRequest struct {
	EncryptedData string `json:"encryptedData"`
	IV            string `json:"iv"`
}

// VerifiedData is the decrypted certificate data returned on a PASSED
// verification. Absent payload fields default to empty strings.
type VerifiedData struct {
	CertificateNumber string `json:"Certificate Number"`
	CourseName        string `json:"Course Name"`
	ExpirationDate    string `json:"Expiration Date"`
	GrantDate         string `json:"Grant Date"`
	Name              string `json:"Name"`
	PolygonURL        string `json:"Polygon URL"`
}

// Verification status values
const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

// VerifyResponse is the POST /api/verify-decrypt response body.
// Status is PASSED or FAILED; Data is only present on PASSED.
type VerifyResponse struct {
	Status  string        `json:"status" example:"PASSED"`
	Message string        `json:"message" example:"Verified"`
	Data    *VerifiedData `json:"data,omitempty"`
}

// verificationPayload is the plaintext encrypted into the QR verification
// link: the canonicalized certificate fields plus the explorer link.
type verificationPayload struct {
	CertificateNumber string `json:"Certificate_Number"`
	Name              string `json:"name"`
	CourseName        string `json:"courseName"`
	GrantDate         string `json:"Grant_Date"`
	ExpirationDate    string `json:"Expiration_Date"`
	PolygonLink       string `json:"polygonLink"`
}

// Ledger is the on-chain contract collaborator. The ledger owns the
// (hash, number) records - the workflows only read and propose writes.
type Ledger interface {
	// Verify reports whether hash is already anchored and, if so, the
	// certificate number it was anchored under.
	Verify(ctx context.Context, hash string) (exists bool, number string, err error)

	// Issue commits (number, hash) to the contract and blocks until the
	// transaction is confirmed, returning the transaction hash.
	Issue(ctx context.Context, number, hash string) (txHash string, err error)
}

// QREncoder encodes a URL string into a scannable image.
type QREncoder interface {
	// DataURL encodes text into a PNG image and returns it as a data URL
	// suitable for embedding in an <img> tag.
	DataURL(text string) (string, error)
}

// IssuanceRecord is one entry in the optional issuance audit log.
type IssuanceRecord struct {
	CertificateNumber string
	CombinedHash      string
	TransactionHash   string
}

// IssuanceRecorder persists issuance receipts for auditing. The recorder is
// write-only: verification never consults it and the encrypted payload is
// never stored.
type IssuanceRecorder interface {
	RecordIssuance(ctx context.Context, rec IssuanceRecord) error
}
