package certify

// errors.go defines the error codes used by the certificate API

import "fmt"

// CertifyError represents a structured error from the certify package.
type CertifyError struct {
	// code is the certify error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *CertifyError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *CertifyError) Code() ErrorCode { return e.code }
func (e *CertifyError) Unwrap() error   { return e.wrapped }

// ErrorCode is used in errors returned by the certificate API.
type ErrorCode string

// Error codes used by this implementation of the certificate API
const (

	// ErrCodeValidation is used when a required certificate field is missing
	// or malformed
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeInvalidDate is used when a date field does not parse under any
	// of the accepted input formats. Date canonicalization failure blocks
	// issuance - a date that cannot be canonicalized would produce a hash
	// that can never be reproduced on the verification side.
	ErrCodeInvalidDate ErrorCode = "invalid_date"

	// ErrCodeMalformedRequest is used when JSON parsing or encoding fails
	ErrCodeMalformedRequest ErrorCode = "malformed_request"

	// ErrCodeDuplicateCertificate is used when the ledger already holds the
	// combined hash under the submitted certificate number - resubmitting
	// identical fields never creates a second ledger entry.
	ErrCodeDuplicateCertificate ErrorCode = "duplicate_certificate"

	// ErrCodeLedger is used when a ledger round-trip fails (RPC failure,
	// gas/nonce failure, signature failure). Ledger failures are terminal
	// for the request - there is no compensating action and the caller must
	// retry the entire issuance.
	ErrCodeLedger ErrorCode = "ledger"

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"

	// ErrCodeRequestTooLarge is used when the request body is too large
	// - this is only used in the middleware
	ErrCodeRequestTooLarge ErrorCode = "request_too_large"

	// ErrCodeInternal is used when an internal server error occurs
	ErrCodeInternal ErrorCode = "internal"
)

// NewValidationError creates a validation error for invalid input.
// Use this for missing or empty certificate fields.
//
// The returned error will have code ErrCodeValidation.
func NewValidationError(msg string) error {
	return &CertifyError{code: ErrCodeValidation, message: msg}
}

// WrapValidationError wraps an existing error as a validation error.
//
// The returned error will have code ErrCodeValidation.
func WrapValidationError(err error, msg string) error {
	return &CertifyError{code: ErrCodeValidation, message: msg, wrapped: err}
}

// NewInvalidDateError creates an error for a date that does not parse under
// any accepted input format.
//
// The returned error will have code ErrCodeInvalidDate.
func NewInvalidDateError(msg string) error {
	return &CertifyError{code: ErrCodeInvalidDate, message: msg}
}

// NewMalformedRequestError creates an error for malformed requests.
func NewMalformedRequestError(msg string) error {
	return &CertifyError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps an existing error as a malformed request error.
func WrapMalformedRequestError(err error, msg string) error {
	return &CertifyError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewDuplicateCertificateError creates an error for an already-issued
// certificate.
//
// The returned error will have code ErrCodeDuplicateCertificate.
func NewDuplicateCertificateError(msg string) error {
	return &CertifyError{code: ErrCodeDuplicateCertificate, message: msg}
}

// WrapLedgerError wraps an existing error as a ledger error.
// Use this for RPC failures, transaction signing failures, and commit
// failures reported by the ledger client.
//
// The returned error will have code ErrCodeLedger.
func WrapLedgerError(err error, msg string) error {
	return &CertifyError{code: ErrCodeLedger, message: msg, wrapped: err}
}

// NewRateLimitError creates a rate limit exceeded error.
// Use this when the client has exceeded the rate limit.
//
// The returned error will have code ErrCodeRateLimitExceeded.
func NewRateLimitError(msg string) error {
	return &CertifyError{code: ErrCodeRateLimitExceeded, message: msg}
}

// NewRequestTooLargeError creates a request too large error.
// Use this when the request body exceeds the maximum allowed size.
//
// The returned error will have code ErrCodeRequestTooLarge.
func NewRequestTooLargeError(msg string) error {
	return &CertifyError{code: ErrCodeRequestTooLarge, message: msg}
}

// NewInternalError creates an internal error for unexpected failures.
//
// The returned error will have code ErrCodeInternal.
func NewInternalError(msg string) error {
	return &CertifyError{code: ErrCodeInternal, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
//
// The returned error will have code ErrCodeInternal.
func WrapInternalError(err error, msg string) error {
	return &CertifyError{code: ErrCodeInternal, message: msg, wrapped: err}
}
