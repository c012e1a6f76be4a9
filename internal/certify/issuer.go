package certify

// issuer.go implements the issuance workflow:
// validate -> canonicalize -> hash -> ledger duplicate check -> commit ->
// encrypted verification link -> QR image -> response.

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/certs365/certify-server/internal/crypto"
	"github.com/certs365/certify-server/internal/logger"
)

// Issuer orchestrates certificate issuance. All collaborators are read-only
// after construction, so a single Issuer serves concurrent requests; the
// ledger's own nonce sequencing is the only serialization of concurrent
// commits.
type Issuer struct {
	ledger Ledger
	codec  *crypto.Codec
	qr     QREncoder

	// recorder is the optional issuance audit log; nil disables recording
	recorder IssuanceRecorder

	// verifyBaseURL is the page the QR code points at, e.g.
	// https://verify.certs365.io/
	verifyBaseURL string

	// explorerTxURL prefixes the transaction hash to form the explorer
	// link, e.g. https://polygonscan.com/tx/
	explorerTxURL string
}

// NewIssuer creates an issuance workflow. recorder may be nil when the
// issuance log is disabled.
func NewIssuer(ledger Ledger, codec *crypto.Codec, qr QREncoder, recorder IssuanceRecorder, verifyBaseURL, explorerTxURL string) *Issuer {
	return &Issuer{
		ledger:        ledger,
		codec:         codec,
		qr:            qr,
		recorder:      recorder,
		verifyBaseURL: verifyBaseURL,
		explorerTxURL: explorerTxURL,
	}
}

// Issue runs the issuance workflow for one certificate.
//
// If the ledger already holds the combined hash under the submitted
// certificate number the request fails with ErrCodeDuplicateCertificate and
// no commit is attempted - resubmitting identical fields never creates a
// second ledger entry.
func (i *Issuer) Issue(ctx context.Context, req IssueRequest) (*IssueResponse, error) {
	reqLogger := logger.ContextRequestLogger(ctx)

	canonical, _, combinedHash, err := Fingerprint(req.Fields())
	if err != nil {
		return nil, err
	}

	exists, number, err := i.ledger.Verify(ctx, combinedHash)
	if err != nil {
		return nil, WrapLedgerError(err, "failed to check certificate on ledger")
	}

	if exists && number == req.CertificateNumber {
		return nil, NewDuplicateCertificateError("Certificate already issued")
	}

	txHash, err := i.ledger.Issue(ctx, req.CertificateNumber, combinedHash)
	if err != nil {
		return nil, WrapLedgerError(err, "failed to commit certificate to ledger")
	}

	polygonLink := i.explorerTxURL + txHash

	verifyURL, err := i.buildVerificationURL(canonical, polygonLink)
	if err != nil {
		return nil, err
	}

	qrCodeImage, err := i.qr.DataURL(verifyURL)
	if err != nil {
		return nil, WrapInternalError(err, "failed to encode QR code")
	}

	if i.recorder != nil {
		// audit only - a failed write never fails an issuance that is
		// already committed on-chain
		if err := i.recorder.RecordIssuance(ctx, IssuanceRecord{
			CertificateNumber: req.CertificateNumber,
			CombinedHash:      combinedHash,
			TransactionHash:   txHash,
		}); err != nil {
			reqLogger.Warn("failed to record issuance",
				slog.String("certificate_number", req.CertificateNumber),
				slog.String("error", err.Error()),
			)
		}
	}

	reqLogger.Info("certificate issued",
		slog.String("certificate_number", req.CertificateNumber),
		slog.String("certificate_hash", combinedHash),
		slog.String("tx_hash", txHash),
	)

	return &IssueResponse{
		QRCodeImage: qrCodeImage,
		PolygonLink: polygonLink,
		Details: CertificateDetails{
			TransactionHash:   txHash,
			CertificateHash:   combinedHash,
			CertificateNumber: req.CertificateNumber,
			Name:              req.Name,
			CourseName:        req.CourseName,
			GrantDate:         req.GrantDate,
			ExpirationDate:    req.ExpirationDate,
		},
	}, nil
}

// buildVerificationURL encrypts the canonical fields plus the explorer link
// and embeds the result in the verification page URL as query parameters.
func (i *Issuer) buildVerificationURL(canonical CertificateFields, polygonLink string) (string, error) {
	payload := verificationPayload{
		CertificateNumber: canonical.CertificateNumber,
		Name:              canonical.Name,
		CourseName:        canonical.CourseName,
		GrantDate:         canonical.GrantDate,
		ExpirationDate:    canonical.ExpirationDate,
		PolygonLink:       polygonLink,
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", WrapInternalError(err, "failed to marshal verification payload")
	}

	encrypted, err := i.codec.Encrypt(plaintext)
	if err != nil {
		return "", WrapInternalError(err, "failed to encrypt verification payload")
	}

	base, err := url.Parse(i.verifyBaseURL)
	if err != nil {
		return "", WrapInternalError(err, "invalid verification base URL")
	}

	query := url.Values{}
	query.Set("q", encrypted.Ciphertext)
	query.Set("iv", encrypted.IV)
	base.RawQuery = query.Encode()

	return base.String(), nil
}
