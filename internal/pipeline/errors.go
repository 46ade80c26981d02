package pipeline

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced session (or its owner) does not
// exist. Fatal to the invocation; the caller should not retry.
var ErrNotFound = errors.New("not found")

// StoreError wraps a failed read or write against the relational store.
// Transient by assumption: the pipeline performs no internal retries and
// surfaces the error for the caller to re-invoke the whole session.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
