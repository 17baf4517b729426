package signing

import "fmt"

// Error codes for signing and verification
const (
	ErrCodeNoSignature      = "NO_SIGNATURE"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeKeyMaterial      = "KEY_MATERIAL"
	ErrCodeMalformed        = "MALFORMED_DOCUMENT"
)

// SigningError represents signing and verification errors
type SigningError struct {
	Code    string
	Field   string
	Message string
	Cause   error
}

func (e *SigningError) Error() string {
	if e.Field != "" && e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Code, e.Field, e.Message, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SigningError) Unwrap() error {
	return e.Cause
}

// NewSigningError creates a new signing error
func NewSigningError(code, field, message string, cause error) *SigningError {
	return &SigningError{
		Code:    code,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ErrNoSignature returns error when no signature found in document
func ErrNoSignature() *SigningError {
	return NewSigningError(ErrCodeNoSignature, "", "no signature found in document", nil)
}

// ErrInvalidSignature returns error when signature validation fails
func ErrInvalidSignature(cause error) *SigningError {
	return NewSigningError(ErrCodeInvalidSignature, "signature", "signature validation failed", cause)
}

// ErrKeyMaterial returns error when the certificate or key cannot be loaded
func ErrKeyMaterial(field string, cause error) *SigningError {
	return NewSigningError(ErrCodeKeyMaterial, field, "cannot load key material", cause)
}

// ErrMalformed returns error when the document cannot be parsed
func ErrMalformed(cause error) *SigningError {
	return NewSigningError(ErrCodeMalformed, "", "document is not well-formed XML", cause)
}
