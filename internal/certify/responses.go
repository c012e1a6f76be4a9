package certify

// responses.go provides helper functions for sending HTTP responses from the
// certificate API handlers, and the mapping from workflow errors to the
// response schema. Every error is translated here - nothing escapes to the
// client as an unstructured fault.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/certs365/certify-server/internal/crypto"
	"github.com/certs365/certify-server/internal/logger"
)

// ErrorResponse is the error body returned by the certificate API.
type ErrorResponse struct {
	Message string `json:"message" example:"Certificate already issued"`
}

// MapErrorToResponse maps certify.CertifyError, crypto.CryptoError, or
// generic errors to an HTTP status code and a sanitized client-facing
// message. The full error detail is only ever logged server-side.
func MapErrorToResponse(err error, r *http.Request) (int, ErrorResponse) {
	var certifyErr *CertifyError
	if errors.As(err, &certifyErr) {
		return statusFromCertify(certifyErr)
	}

	var cryptoErr *crypto.CryptoError
	if errors.As(err, &cryptoErr) {
		return statusFromCrypto(cryptoErr)
	}

	// fallback - this is not expected; log the unmapped error type
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error("BUG: unmapped error type in MapErrorToResponse",
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("error", err.Error()),
	)
	return http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"}
}

func statusFromCertify(err *CertifyError) (int, ErrorResponse) {
	switch err.Code() {
	case ErrCodeValidation, ErrCodeInvalidDate, ErrCodeMalformedRequest:
		return http.StatusBadRequest, ErrorResponse{Message: err.Error()}
	case ErrCodeDuplicateCertificate:
		return http.StatusBadRequest, ErrorResponse{Message: "Certificate already issued"}
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests, ErrorResponse{Message: err.Error()}
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge, ErrorResponse{Message: err.Error()}
	case ErrCodeLedger, ErrCodeInternal:
		return http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"}
	}
}

func statusFromCrypto(err *crypto.CryptoError) (int, ErrorResponse) {
	switch err.Code() {
	case crypto.ErrCodeValidation:
		return http.StatusBadRequest, ErrorResponse{Message: err.Error()}
	default:
		// decryption errors never reach this path - the verification
		// workflow maps them to a FAILED result before the handler
		// responds - so anything else is a server fault
		return http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"}
	}
}

// RespondWithErrorResponse sends an error response as a JSON payload.
//
// It logs the full error details server-side and sends a sanitized message
// to the client.
func RespondWithErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, errorResponse := MapErrorToResponse(err, r)

	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Warn("request failed",
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	RespondWithJSONPayload(w, statusCode, errorResponse)
}

// RespondWithJSONPayload sends a JSON response with the given status code
func RespondWithJSONPayload(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// headers are already written - log it but don't try to send
			// another response
			slog.Error("failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}
