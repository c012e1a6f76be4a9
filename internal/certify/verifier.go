package certify

// verifier.go implements the verification workflow: decrypt the presented
// payload and report PASSED with the recovered fields, or FAILED.
//
// No ledger cross-check is performed here. Only this service holds the
// encryption key, so a payload that decrypts to valid JSON can only have
// been produced by the issuance workflow - decryptability implies
// authenticity. Re-verifying the combined hash against the ledger would be a
// possible hardening but is not required behavior.

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/certs365/certify-server/internal/crypto"
	"github.com/certs365/certify-server/internal/logger"
)

// Verifier runs the verification workflow against the server's symmetric
// codec.
type Verifier struct {
	codec *crypto.Codec
}

// NewVerifier creates a verification workflow.
func NewVerifier(codec *crypto.Codec) *Verifier {
	return &Verifier{codec: codec}
}

// Verify decrypts the presented payload and returns a PASSED response with
// the recovered certificate data, or a FAILED response.
//
// Every failure mode - malformed base64, wrong IV length, padding failure,
// JSON parse failure - yields the same FAILED response with no further
// detail: a tampered payload must not learn why it was rejected. FAILED is a
// normal outcome, never a server error.
func (v *Verifier) Verify(ctx context.Context, req VerifyRequest) VerifyResponse {
	reqLogger := logger.ContextRequestLogger(ctx)

	plaintext, err := v.codec.Decrypt(req.EncryptedData, req.IV)
	if err != nil {
		reqLogger.Info("verification failed: payload did not decrypt",
			slog.String("error", err.Error()),
		)
		return VerifyResponse{Status: StatusFailed, Message: "Not Verified"}
	}

	var payload verificationPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		reqLogger.Info("verification failed: decrypted payload is not valid JSON",
			slog.String("error", err.Error()),
		)
		return VerifyResponse{Status: StatusFailed, Message: "Not Verified"}
	}

	// absent payload fields remain empty strings rather than failing
	return VerifyResponse{
		Status:  StatusPassed,
		Message: "Verified",
		Data: &VerifiedData{
			CertificateNumber: payload.CertificateNumber,
			CourseName:        payload.CourseName,
			ExpirationDate:    payload.ExpirationDate,
			GrantDate:         payload.GrantDate,
			Name:              payload.Name,
			PolygonURL:        payload.PolygonLink,
		},
	}
}
