// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for furi-thread.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrEmbeddedNul       = errors.New("name contains an interior nul byte")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrOperationTimeout  = errors.New("operation timeout")
	ErrNotSupported      = errors.New("operation not supported")
	ErrNotFound          = errors.New("resource not found")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeTimeout
	ErrCodeNotSupported
	ErrCodeNotFound
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the sentinel the error was built from, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
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

// Wrap records err as the cause reported by Unwrap.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// NulError is returned when a thread name holds a nul byte.
// Pos is the byte offset of the first nul.
type NulError struct {
	Pos  int
	Name string
}

func (e *NulError) Error() string {
	return fmt.Sprintf("nul byte found in provided data at position: %d", e.Pos)
}

// Is reports ErrEmbeddedNul equivalence.
func (e *NulError) Is(target error) bool {
	return target == ErrEmbeddedNul
}
