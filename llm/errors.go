package llm

import (
	"errors"
)

// Error represents a failure talking to the inference endpoint.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int    // HTTP status, zero when no response was received
	Body       string // Raw response body for status failures
	Cause      error  // Underlying transport, parse or provider error
}

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeTransport            ErrorType = "transport"
	ErrorTypeIncompleteGeneration ErrorType = "incomplete_generation"
	ErrorTypeModelCreation        ErrorType = "model_creation"
	ErrorTypeRetryExhausted       ErrorType = "retry_exhausted"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// isErrorType walks every *Error in the chain, since model creation and
// retry exhaustion wrap the *Error that caused them.
func isErrorType(err error, t ErrorType) bool {
	for {
		var llmErr *Error
		if !errors.As(err, &llmErr) {
			return false
		}
		if llmErr.Type == t {
			return true
		}
		err = llmErr.Cause
	}
}

// IsTransportError checks if an error is a transport error.
func IsTransportError(err error) bool {
	return isErrorType(err, ErrorTypeTransport)
}

// IsIncompleteGenerationError checks if an error reports an unfinished generation.
func IsIncompleteGenerationError(err error) bool {
	return isErrorType(err, ErrorTypeIncompleteGeneration)
}

// IsModelCreationError checks if an error is a model creation error.
func IsModelCreationError(err error) bool {
	return isErrorType(err, ErrorTypeModelCreation)
}

// IsRetryExhaustedError checks if an error reports that all attempts failed.
func IsRetryExhaustedError(err error) bool {
	return isErrorType(err, ErrorTypeRetryExhausted)
}

// NewTransportError creates a transport error. statusCode and body are set
// when the endpoint answered with a non-2xx status.
func NewTransportError(message string, statusCode int, body string, cause error) *Error {
	return &Error{
		Type:       ErrorTypeTransport,
		Message:    message,
		StatusCode: statusCode,
		Body:       body,
		Cause:      cause,
	}
}

// NewIncompleteGenerationError creates the error returned when the endpoint
// answers but reports that the model has not finished.
func NewIncompleteGenerationError() *Error {
	return &Error{
		Type:    ErrorTypeIncompleteGeneration,
		Message: "model did not finish processing",
	}
}

// NewModelCreationError wraps any failure of a model creation call.
func NewModelCreationError(cause error) *Error {
	e := &Error{
		Type:    ErrorTypeModelCreation,
		Message: "Failed to create the model",
		Cause:   cause,
	}
	var inner *Error
	if errors.As(cause, &inner) {
		e.StatusCode = inner.StatusCode
		e.Body = inner.Body
	}
	return e
}

// NewRetryExhaustedError creates the terminal error of a bounded retry loop.
// The last attempt's failure is kept as the cause for logging only.
func NewRetryExhaustedError(message string, last error) *Error {
	return &Error{
		Type:    ErrorTypeRetryExhausted,
		Message: message,
		Cause:   last,
	}
}
