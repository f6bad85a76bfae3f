package schemas

import "fmt"

// ValidationError reports invalid user input (blank target, empty query).
// It is surfaced directly to the caller as a user-facing message and is never
// logged as a system fault.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with a user-facing message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// ProviderError reports a failed call to an external collaborator (search
// provider or oracle). It is always recovered at the smallest possible scope:
// one category for search, one request for the oracle.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err with the name of the failing collaborator.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// DetectionError reports that the language detector could not classify a
// text (too short or ambiguous). Callers recover by skipping correction.
type DetectionError struct {
	Reason string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("language detection failed: %s", e.Reason)
}

// NewDetectionError builds a DetectionError with the given reason.
func NewDetectionError(reason string) *DetectionError {
	return &DetectionError{Reason: reason}
}
