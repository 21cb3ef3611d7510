// Package status translates native result codes into failures.
//
// The native layer reports four independently numbered families of result
// codes. Each family is its own Go type with its own message table, and the
// generic Translate and Check functions are constrained to those types, so a
// value from one family can never be looked up in another family's table.
package status

import (
	stderrors "errors"

	"github.com/kbukum/xfer/errors"
)

// Family is the set of native result code types.
type Family interface {
	Code | MultiCode | ShareCode | URLCode

	Message() string
	String() string
	Retryable() bool
	ok() bool
}

const unknownMessage = "Unknown error"

func lookup[S comparable](table map[S]string, s S) string {
	if m, ok := table[s]; ok {
		return m
	}
	return unknownMessage
}

func errorCode[S Family](s S) errors.ErrorCode {
	switch any(s).(type) {
	case MultiCode:
		return errors.ErrCodeMulti
	case ShareCode:
		return errors.ErrCodeShare
	case URLCode:
		return errors.ErrCodeURL
	default:
		return errors.ErrCodeTransfer
	}
}

// Translate converts s into a failure carrying its family's diagnostic.
// It is meaningful for non-OK values only; use Check on call results.
func Translate[S Family](s S) *errors.AppError {
	return &errors.AppError{
		Code:      errorCode(s),
		Message:   s.Message(),
		Status:    int(s),
		Retryable: s.Retryable(),
		Details:   map[string]any{"status": s.String()},
	}
}

// Check returns nil when s reports success, and the translated failure otherwise.
func Check[S Family](s S) error {
	if s.ok() {
		return nil
	}
	return Translate(s)
}

// CodeOf recovers the single-transfer code carried by err.
// It returns OK for nil and false when err carries no transfer code.
func CodeOf(err error) (Code, bool) {
	if err == nil {
		return OK, true
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeTransfer {
		return OK, false
	}
	return Code(appErr.Status), true
}

// Is reports whether err is the transfer failure c.
func Is(err error, c Code) bool {
	got, ok := CodeOf(err)
	return ok && err != nil && got == c
}
