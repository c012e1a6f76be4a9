package crypto

import "fmt"

// Error represents a structured error from the crypto package
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	ErrCodeValidation    ErrorCode = "validation"
	ErrCodeDecryption    ErrorCode = "decryption"
	ErrCodeKeyManagement ErrorCode = "key_management"
	ErrCodeInternal      ErrorCode = "internal"
)

// CryptoError represents a structured error from the crypto package
type CryptoError struct {

	// code is the crypto error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *CryptoError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *CryptoError) Code() ErrorCode { return e.code }
func (e *CryptoError) Unwrap() error   { return e.wrapped }

// NewValidationError creates a validation error for invalid input.
// Use this for errors related to bad encoding, malformed JSON or
// unsupported key/IV sizes supplied by a caller.
//
// The returned error will have code ErrCodeValidation.
func NewValidationError(msg string) error {
	return &CryptoError{code: ErrCodeValidation, message: msg}
}

// WrapValidationError wraps an existing error as a validation error.
//
// The returned error will have code ErrCodeValidation.
func WrapValidationError(err error, msg string) error {
	return &CryptoError{code: ErrCodeValidation, message: msg, wrapped: err}
}

// NewDecryptionError creates a decryption error.
// Use this for any failure while decrypting a payload: malformed base64,
// wrong IV length, padding validation failure.
//
// Decryption failures are expected when a caller presents a tampered or
// foreign payload, so the verification workflow treats this code as a soft
// "Not Verified" outcome rather than a server fault.
//
// The returned error will have code ErrCodeDecryption.
func NewDecryptionError(msg string) error {
	return &CryptoError{code: ErrCodeDecryption, message: msg}
}

// WrapDecryptionError wraps an existing error as a decryption error.
//
// The returned error will have code ErrCodeDecryption.
func WrapDecryptionError(err error, msg string) error {
	return &CryptoError{code: ErrCodeDecryption, message: msg, wrapped: err}
}

// NewKeyManagementError creates a key management error.
// Use this for errors related to key loading, invalid key format, or JWK
// parsing failures.
//
// The returned error will have code ErrCodeKeyManagement.
func NewKeyManagementError(msg string) error {
	return &CryptoError{code: ErrCodeKeyManagement, message: msg}
}

// WrapKeyManagementError wraps an existing error as a key management error.
//
// The returned error will have code ErrCodeKeyManagement.
func WrapKeyManagementError(err error, msg string) error {
	return &CryptoError{code: ErrCodeKeyManagement, message: msg, wrapped: err}
}

// NewInternalError creates an internal error for unexpected failures.
// Use this for crypto library failures that should not normally occur.
//
// The returned error will have code ErrCodeInternal.
func NewInternalError(msg string) error {
	return &CryptoError{code: ErrCodeInternal, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
//
// The returned error will have code ErrCodeInternal.
func WrapInternalError(err error, msg string) error {
	return &CryptoError{code: ErrCodeInternal, message: msg, wrapped: err}
}
