package cubby

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNotFound
	ErrCodeTypeMismatch
	ErrCodeKeyCollision
	ErrCodeReleaseFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:       "UNKNOWN",
	ErrCodeNotFound:      "NOT_FOUND",
	ErrCodeTypeMismatch:  "TYPE_MISMATCH",
	ErrCodeKeyCollision:  "KEY_COLLISION",
	ErrCodeReleaseFailed: "RELEASE_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

type Error struct {
	Code    ErrorCode
	Message string
	// Subject is the lookup type or container the error is about.
	Subject string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Subject != "" {
		b.WriteString(fmt.Sprintf(" subject=%q:", e.Subject))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithSubject(subject string) *Error {
	e.Subject = subject
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errNotFound(typeName string) *Error {
	return newError(
		ErrCodeNotFound,
		fmt.Sprintf("no binding for type %s", typeName),
		nil,
	).WithSubject(typeName)
}

func errTypeMismatch(typeName string, handle any) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("binding for %s holds %T", typeName, handle),
		nil,
	).WithSubject(typeName)
}

func errKeyCollision(typeName string, cause error) *Error {
	return newError(
		ErrCodeKeyCollision,
		fmt.Sprintf("type key for %s collides with another type", typeName),
		cause,
	).WithSubject(typeName)
}

func errReleaseFailed(container string, cause error) *Error {
	return newError(
		ErrCodeReleaseFailed,
		"failed to release owned bindings",
		cause,
	).WithSubject(container)
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

func IsTypeMismatch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTypeMismatch
}

func IsKeyCollision(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeKeyCollision
}

func IsReleaseFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeReleaseFailed
}
