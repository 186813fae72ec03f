// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Pipeline errors. All are fatal to the request that triggered them; none is
// retried automatically.
var (
	// ErrInvalidDate indicates a record's date could not be parsed. The
	// batch is rejected wholesale.
	ErrInvalidDate = errors.New("invalid transaction date")

	// ErrEmptyInput indicates no valid transactions remained after cleaning.
	ErrEmptyInput = errors.New("no valid transactions")

	// ErrInsufficientData indicates the history is too short or degenerate
	// for model fitting.
	ErrInsufficientData = errors.New("insufficient history for forecasting")

	// ErrModelFit wraps an underlying numerical fit failure.
	ErrModelFit = errors.New("model fit failed")

	// ErrInvalidConfig indicates caller-supplied parameters are invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
