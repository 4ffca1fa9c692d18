// Package errs provides the typed error vocabulary shared by the chain-link,
// finalization, mempool, and sync-protocol packages.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is one of the named outcomes spec.md §7 enumerates.
type Code string

const (
	// Framing errors.
	MalformedData Code = "MALFORMED_DATA"

	// Security errors.
	SecurityError Code = "SECURITY_ERROR"

	// Socket errors, propagated from the transport, never retried here.
	ReadError  Code = "READ_ERROR"
	WriteError Code = "WRITE_ERROR"

	// Block verification outcomes (§4.3).
	InvalidBlockSignature        Code = "INVALID_BLOCK_SIGNATURE"
	InvalidBlockTransactionsHash Code = "INVALID_BLOCK_TRANSACTIONS_HASH"
	InvalidTransactionSignature  Code = "INVALID_TRANSACTION_SIGNATURE"

	// Mempool admission (§4.6, §7).
	FailureServerLimit Code = "FAILURE_SERVER_LIMIT"
	SuccessNew         Code = "SUCCESS_NEW"
	SuccessUpdate      Code = "SUCCESS_UPDATE"
)

// Error is a code-carrying error with an optional wrapped cause.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's outcome code.
func (e *Error) Code() Code { return e.code }

// New builds an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing error, preserving it as
// the unwrap cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}

// CodeOf extracts the Code from err, returning ok=false if err is not (or
// does not wrap) an *Error.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.code, true
	}
	return "", false
}
