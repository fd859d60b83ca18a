package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("trade not found")
	ErrTradeClosed = errors.New("trade is already closed")
)

// ValidationError rejects bad or missing input before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps a failed call to the store or to a remote service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
