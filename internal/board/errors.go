package board

import (
	"errors"
	"fmt"
)

// Code classifies a board failure. The CLI maps each code to an exit status.
type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeDataFormat Code = "data_format"
	CodeIO         Code = "io"
	CodeInternal   Code = "internal"
)

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrValidation = &Error{Code: CodeValidation}
	ErrNotFound   = &Error{Code: CodeNotFound}
	ErrConflict   = &Error{Code: CodeConflict}
	ErrDataFormat = &Error{Code: CodeDataFormat}
	ErrIO         = &Error{Code: CodeIO}
)

// Codes lists every code in a stable order.
func Codes() []Code {
	return []Code{CodeValidation, CodeNotFound, CodeConflict, CodeDataFormat, CodeIO, CodeInternal}
}

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a bare sentinel carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Code == e.Code
}

// Errorf builds an error with a formatted message and no cause.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause to msg. The cause text is appended to the message so it
// reaches the user.
func Wrap(code Code, cause error, msg string) *Error {
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return &Error{Code: code, Message: msg, Err: cause}
}

func CodeOf(err error) Code {
	var boardErr *Error
	if errors.As(err, &boardErr) {
		return boardErr.Code
	}
	return CodeInternal
}

func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var boardErr *Error
	if errors.As(err, &boardErr) {
		return boardErr.Error()
	}
	return err.Error()
}
