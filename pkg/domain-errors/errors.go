// Package domainerrors defines the code-tagged error type shared by all
// services. Codes classify recoverability for callers: validation and state
// errors are fixable input problems, upload failures are retryable, decode
// failures need new input.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Code string

const (
	CodeBadRequest             Code = "bad_request"
	CodeValidation             Code = "validation_error"
	CodeInvalidState           Code = "invalid_state"
	CodeNotFound               Code = "not_found"
	CodeAuthRequired           Code = "authentication_required"
	CodeInvalidSignatureFormat Code = "invalid_signature_format"
	CodeDecode                 Code = "decode_error"
	CodeUploadFailed           Code = "upload_failed"
	CodeUnauthorized           Code = "unauthorized"
	CodeInternal               Code = "internal"
)

// Error carries a machine-readable code, a human-actionable message, and for
// validation failures the complete list of violations (never just the first).
type Error struct {
	Code       Code
	Message    string
	Violations []Violation
	cause      error
}

func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		parts := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			parts = append(parts, v.String())
		}
		return e.Message + ": " + strings.Join(parts, "; ")
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message while preserving the cause for errors.Is
// chains across layers.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for untagged
// errors so transport layers always have something to translate.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidSignatureFormat, CodeDecode:
		return http.StatusBadRequest
	case CodeInvalidState:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAuthRequired, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Violation names one invalid item in an aggregate validation result.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// ViolationList accumulates every validation failure before reporting, so
// callers can surface a complete error list instead of fixing one item at a
// time.
type ViolationList struct {
	items []Violation
}

func (l *ViolationList) Add(field, message string) {
	l.items = append(l.items, Violation{Field: field, Message: message})
}

func (l *ViolationList) Addf(field, format string, args ...any) {
	l.Add(field, fmt.Sprintf(format, args...))
}

func (l *ViolationList) Empty() bool { return len(l.items) == 0 }

// Err returns nil when no violations were recorded, otherwise a single
// CodeValidation error carrying all of them.
func (l *ViolationList) Err(message string) error {
	if len(l.items) == 0 {
		return nil
	}
	return &Error{Code: CodeValidation, Message: message, Violations: l.items}
}
