package errors

import (
	"fmt"
)

// Code classifies the protocol failure conditions. Every rejected operation
// surfaces exactly one of these and leaves all state unchanged.
type Code string

const (
	// CodeUnauthorized indicates the caller lacks admin rights.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeInsufficientDeposit indicates the payer cannot cover the required deposit.
	CodeInsufficientDeposit Code = "INSUFFICIENT_DEPOSIT"

	// CodeInsufficientFunds indicates the pool cannot cover a withdrawal.
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// CodeInvalidRecipient indicates a withdrawal to the zero identity.
	CodeInvalidRecipient Code = "INVALID_RECIPIENT"

	// CodeMalformedRequest indicates a structurally invalid request,
	// e.g. an empty transaction body where non-empty is required.
	CodeMalformedRequest Code = "MALFORMED_REQUEST"

	// CodeInvalidInputLength indicates parallel batch arrays of unequal length.
	CodeInvalidInputLength Code = "INVALID_INPUT_LENGTH"

	// CodeInvalidSignature indicates a response that does not recover to the
	// expected response-path key.
	CodeInvalidSignature Code = "INVALID_SIGNATURE"

	// CodeNotFound indicates a missing entity (unknown account, uninitialized state).
	CodeNotFound Code = "NOT_FOUND"

	// CodeInternal indicates a storage or system failure.
	CodeInternal Code = "INTERNAL"
)

// ProtocolError carries a protocol failure condition with optional cause and
// structured context.
type ProtocolError struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// New creates a ProtocolError.
func New(code Code, message string) *ProtocolError {
	return &ProtocolError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a ProtocolError with a formatted message.
func Newf(code Code, format string, args ...interface{}) *ProtocolError {
	return New(code, fmt.Sprintf(format, args...))
}

// WithCause attaches an underlying cause.
func (e *ProtocolError) WithCause(cause error) *ProtocolError {
	e.Cause = cause
	return e
}

// WithContext attaches one structured context entry.
func (e *ProtocolError) WithContext(key string, value interface{}) *ProtocolError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}
