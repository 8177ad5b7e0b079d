// Package errors provides error handling for gfdata.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel errors for the dataset refresh domain
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrDatasetNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Mark associates an error with a reference sentinel without changing its
// message. Use it when the message must reach callers verbatim but the
// error still needs to be classifiable with Is().
var Mark = crdb.Mark

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Common sentinel errors for use across gfdata.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrDatasetNotFound indicates the requested dataset key is not configured
	// or has no stored rows
	ErrDatasetNotFound = New("dataset not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrUnauthorized indicates the request lacks a valid API key
	ErrUnauthorized = New("unauthorized")

	// ErrPreprocessFailed indicates the preprocessing hook reported a
	// non-success status
	ErrPreprocessFailed = New("preprocessing failed")
)

// IsDatasetNotFound checks if an error is or wraps ErrDatasetNotFound.
func IsDatasetNotFound(err error) bool {
	return err != nil && Is(err, ErrDatasetNotFound)
}

// IsPreprocessFailed checks if an error is or wraps ErrPreprocessFailed.
func IsPreprocessFailed(err error) bool {
	return err != nil && Is(err, ErrPreprocessFailed)
}
