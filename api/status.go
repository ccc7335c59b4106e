// File: api/status.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Kernel status codes surfaced by flag operations.

package api

import "fmt"

// Status is a signed kernel status code. Zero means success, negative
// values are failures.
type Status int32

const (
	StatusOk               Status = 0
	StatusErrorUnspecified Status = -1
	StatusErrorTimeout     Status = -2
	StatusErrorResource    Status = -3
	StatusErrorParameter   Status = -4
	StatusErrorNoMemory    Status = -5
	StatusErrorISR         Status = -6
	StatusReserved         Status = 0x7FFFFFFF
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusErrorUnspecified:
		return "unspecified error"
	case StatusErrorTimeout:
		return "timeout"
	case StatusErrorResource:
		return "resource unavailable"
	case StatusErrorParameter:
		return "parameter error"
	case StatusErrorNoMemory:
		return "out of memory"
	case StatusErrorISR:
		return "not allowed in ISR context"
	default:
		return fmt.Sprintf("unknown status %d", int32(s))
	}
}

// IsErr reports whether s denotes a failure.
func (s Status) IsErr() bool {
	return s < 0
}

// Err converts a failing status into an error, nil for StatusOk.
func (s Status) Err() error {
	if !s.IsErr() {
		return nil
	}
	return &StatusError{Status: s}
}

// StatusError wraps a failing Status.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return "kernel status: " + e.Status.String()
}

// Is matches another *StatusError with the same status, and maps timeouts
// onto ErrOperationTimeout.
func (e *StatusError) Is(target error) bool {
	if t, ok := target.(*StatusError); ok {
		return t.Status == e.Status
	}
	return target == ErrOperationTimeout && e.Status == StatusErrorTimeout
}
