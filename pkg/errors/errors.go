// Package errors provides structured error handling for the plotkit chart core.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates invalid or unloadable configuration.
	KindConfig
	// KindFetch indicates a series data fetch failure.
	KindFetch
	// KindDispose indicates a drawing-resource disposal failure.
	KindDispose
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindFetch:
		return "fetch"
	case KindDispose:
		return "dispose"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// PlotError represents a structured error in the plotkit core.
type PlotError struct {
	// Op is the operation that failed (e.g., "chart.Model.Update").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *PlotError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *PlotError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "schedule.Debouncer.fire").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// DisposeError aggregates disposal failures from a ledger collection or
// clear pass. Collection is best effort: one failing resource does not
// stop the pass, and all failures surface as a single bundle.
type DisposeError struct {
	// Errs holds each individual disposal failure, in collection order.
	Errs []error
}

func (e *DisposeError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("disposing 1 resource failed: %v", e.Errs[0])
	}
	return fmt.Sprintf("disposing %d resources failed (first: %v)", len(e.Errs), e.Errs[0])
}

// Unwrap exposes the individual failures to errors.Is/As.
func (e *DisposeError) Unwrap() []error {
	return e.Errs
}

// JoinDispose bundles disposal failures into a single error.
// It returns nil when errs is empty.
func JoinDispose(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &DisposeError{Errs: errs}
}

// ErrorHandler receives errors reported by the plotkit core.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *PlotError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
