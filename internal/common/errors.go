// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Configuration errors.
	ErrConfiguration = errors.New("configuration error")
	ErrMissingConfig = errors.New("missing configuration")

	// Spreadsheet API errors.
	ErrTransport = errors.New("transport error")

	// Table shape errors.
	ErrSchema = errors.New("schema error")
)

// ConfigurationError reports credential or config fields that are absent or
// unusable. It is fatal at startup.
type ConfigurationError struct {
	Err     error
	Section string
	Missing []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Section != "" {
		b.WriteString(" in ")
		b.WriteString(e.Section)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is matches ErrConfiguration, and ErrMissingConfig when fields are missing.
func (e *ConfigurationError) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return true
	case ErrMissingConfig:
		return len(e.Missing) > 0
	}
	return false
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failed spreadsheet API call for a single range.
type TransportError struct {
	Err   error
	Range string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Range, e.Err)
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SchemaError reports expected columns that a table does not expose.
type SchemaError struct {
	Context string
	Missing []string
}

func (e *SchemaError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("columns not found: %s", quoteAll(e.Missing))
	}
	return fmt.Sprintf("%s: columns not found: %s", e.Context, quoteAll(e.Missing))
}

// Is matches ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("'%s'", n)
	}
	return strings.Join(quoted, "/")
}

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

// IsRetryable reports whether WithRetry should try err again. Only errors
// marked retryable, rate limits and deadline expiries qualify.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return errors.Is(err, ErrRateLimit) || errors.Is(err, context.DeadlineExceeded)
}
