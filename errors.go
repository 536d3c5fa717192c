package relay

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the attempt can be
	// retried against the same provider.
	// Examples: rate limits, timeouts, 5xx responses, connection resets.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry
	// against the same provider. A permanent provider error triggers fallback
	// evaluation instead of another attempt.
	// Examples: invalid credential reference, model not found, malformed response.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the caller provided invalid input that must be
	// corrected. These never reach the network.
	// Examples: unknown persona, invalid use case.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorTransient,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{
		Msg:        msg,
		Cat:        ErrorTransient,
		Code:       statusCode,
		RetryDelay: retryAfter,
		Cause:      cause,
	}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorPermanent,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewUserInputError creates an error indicating invalid caller input.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorUserInput,
		Code:  statusCode,
		Cause: cause,
	}
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
// It checks if the error or any wrapped error implements CategorizedError.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error is categorized as user input error.
// It checks if the error or any wrapped error implements CategorizedError.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// UnknownPersonaError is returned when a persona id is not in the registry.
type UnknownPersonaError struct {
	Persona string
}

func (e *UnknownPersonaError) Error() string {
	return fmt.Sprintf("unknown persona %q", e.Persona)
}

// Category returns ErrorUserInput.
func (e *UnknownPersonaError) Category() ErrorCategory { return ErrorUserInput }

// Retryable returns false.
func (e *UnknownPersonaError) Retryable() bool { return false }

// StatusCode returns 0; the error never involves a network call.
func (e *UnknownPersonaError) StatusCode() int { return 0 }

// RetryAfter returns 0.
func (e *UnknownPersonaError) RetryAfter() time.Duration { return 0 }

// InvalidUseCaseError is returned when a use case is not one of the fixed set.
type InvalidUseCaseError struct {
	UseCase UseCase
}

func (e *InvalidUseCaseError) Error() string {
	return fmt.Sprintf("invalid use case %q", string(e.UseCase))
}

// Category returns ErrorUserInput.
func (e *InvalidUseCaseError) Category() ErrorCategory { return ErrorUserInput }

// Retryable returns false.
func (e *InvalidUseCaseError) Retryable() bool { return false }

// StatusCode returns 0; the error never involves a network call.
func (e *InvalidUseCaseError) StatusCode() int { return 0 }

// RetryAfter returns 0.
func (e *InvalidUseCaseError) RetryAfter() time.Duration { return 0 }

// NetworkUnavailableError is returned when the client is offline and the
// envelope does not allow queueing.
type NetworkUnavailableError struct {
	Persona string
}

func (e *NetworkUnavailableError) Error() string {
	return fmt.Sprintf("network unavailable and queueing disallowed for persona %q", e.Persona)
}

// Category returns ErrorTransient: the condition clears when connectivity returns.
func (e *NetworkUnavailableError) Category() ErrorCategory { return ErrorTransient }

// Retryable returns true.
func (e *NetworkUnavailableError) Retryable() bool { return true }

// StatusCode returns 0.
func (e *NetworkUnavailableError) StatusCode() int { return 0 }

// RetryAfter returns 0.
func (e *NetworkUnavailableError) RetryAfter() time.Duration { return 0 }

// AllProvidersExhaustedError is the terminal dispatch failure: every provider
// in the fallback chain was attempted and failed.
type AllProvidersExhaustedError struct {
	RequestID string
	Attempted []string // provider names in attempt order
	Cause     error    // last provider error
}

func (e *AllProvidersExhaustedError) Error() string {
	msg := fmt.Sprintf("all providers exhausted for request %s (attempted %s)",
		e.RequestID, strings.Join(e.Attempted, ", "))
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the last provider error.
func (e *AllProvidersExhaustedError) Unwrap() error { return e.Cause }

// Category returns ErrorPermanent: the chain never cascades past the fallback tier.
func (e *AllProvidersExhaustedError) Category() ErrorCategory { return ErrorPermanent }

// Retryable returns false.
func (e *AllProvidersExhaustedError) Retryable() bool { return false }

// StatusCode returns the status code of the last provider error, or 0.
func (e *AllProvidersExhaustedError) StatusCode() int { return StatusCodeOf(e.Cause) }

// RetryAfter returns 0.
func (e *AllProvidersExhaustedError) RetryAfter() time.Duration { return 0 }

// QueuePersistenceError is returned when an envelope could not be durably
// enqueued. The request is rejected rather than silently dropped.
type QueuePersistenceError struct {
	RequestID string
	Cause     error
}

func (e *QueuePersistenceError) Error() string {
	return fmt.Sprintf("failed to persist queued request %s: %v", e.RequestID, e.Cause)
}

// Unwrap returns the underlying storage error.
func (e *QueuePersistenceError) Unwrap() error { return e.Cause }

// Category returns ErrorPermanent: local storage failures do not clear with retry.
func (e *QueuePersistenceError) Category() ErrorCategory { return ErrorPermanent }

// Retryable returns false.
func (e *QueuePersistenceError) Retryable() bool { return false }

// StatusCode returns 0.
func (e *QueuePersistenceError) StatusCode() int { return 0 }

// RetryAfter returns 0.
func (e *QueuePersistenceError) RetryAfter() time.Duration { return 0 }

// AttemptedProviders returns the ordered provider names recorded on a
// terminal dispatch error, or nil if the error carries none.
func AttemptedProviders(err error) []string {
	var exhausted *AllProvidersExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Attempted
	}
	return nil
}
