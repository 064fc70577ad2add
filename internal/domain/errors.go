package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownPeriod = errors.New("unknown period")
	ErrDupPeriod     = errors.New("period listed twice")
	ErrBadStatus     = errors.New("unexpected status")
)

// QueryError is a failed period fetch from the project API.
// The kiosk treats it as "no data" for that period.
type QueryError struct {
	Op      string // Operation: "request", "fetch", "status", "decode"
	Period  Period // Period being fetched
	Status  int    // HTTP status, when one was received
	Message string // Human-readable context
	Err     error  // Underlying error
}

func (e *QueryError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("query %s [%s]: status %d", e.Op, e.Period, e.Status)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("query %s [%s]: %s: %v", e.Op, e.Period, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("query %s [%s]: %s", e.Op, e.Period, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("query %s [%s]: %v", e.Op, e.Period, e.Err)
	default:
		return fmt.Sprintf("query %s [%s] failed", e.Op, e.Period)
	}
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// StoreError represents an error from the refresh log store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
