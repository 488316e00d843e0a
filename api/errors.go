// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and classification for the dispatch service.

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap them in *Error via NewError to attach a code.
var (
	ErrInvalidCount    = errors.New("invalid job count")
	ErrBatchTooLarge   = errors.New("job count exceeds batch ceiling")
	ErrIndexOutOfRange = errors.New("history index out of range")
	ErrAlreadyDeleted  = errors.New("result already deleted")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// ErrorCode represents specific error conditions in the service.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeAlreadyDeleted
	// Codes from here on end the session.
	ErrCodeBatchTooLarge
	ErrCodeOutOfRange
	ErrCodeProtocol
	ErrCodeInternal
)

// Fatal reports whether the code terminates the session.
func (c ErrorCode) Fatal() bool {
	return c >= ErrCodeBatchTooLarge
}

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeAlreadyDeleted:
		return "already_deleted"
	case ErrCodeBatchTooLarge:
		return "batch_too_large"
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeProtocol:
		return "protocol"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Err     error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (context: %+v)", e.Err.Error(), e.Context)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error around a sentinel.
func NewError(code ErrorCode, err error) *Error {
	return &Error{
		Code:    code,
		Err:     err,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the code of the first *Error in err's chain.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// IsFatal reports whether err must end the session.
func IsFatal(err error) bool {
	return err != nil && CodeOf(err).Fatal()
}
