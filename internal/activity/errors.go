package activity

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a failed activity lookup.
type ErrorCategory string

const (
	ErrorTimeout          ErrorCategory = "timeout"
	ErrorBadData          ErrorCategory = "bad_data"
	ErrorAuthentication   ErrorCategory = "authentication"
	ErrorProviderOutage   ErrorCategory = "provider_outage"
	ErrorContractMismatch ErrorCategory = "contract_mismatch"
	ErrorNotFound         ErrorCategory = "not_found"
	ErrorRateLimited      ErrorCategory = "rate_limited"
	ErrorCircuitOpen      ErrorCategory = "circuit_open" // rejected locally, provider not called
)

// transient categories may succeed on a later attempt.
func (c ErrorCategory) transient() bool {
	switch c {
	case ErrorTimeout, ErrorProviderOutage, ErrorRateLimited:
		return true
	default:
		return false
	}
}

// providerFault categories say something about provider health rather than
// the account looked up. Only these feed the circuit breaker.
func (c ErrorCategory) providerFault() bool {
	return c.transient() || c == ErrorAuthentication
}

// ProviderError is the only error type the client returns.
type ProviderError struct {
	Category   ErrorCategory
	Provider   string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("activity provider %s [%s]: %s", e.Provider, e.Category, e.Message)
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError builds a ProviderError whose retryability follows its category.
func NewProviderError(category ErrorCategory, provider, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
		Retryable:  category.transient(),
	}
}

func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}

// CategoryOf returns "" for errors that did not come from this package.
func CategoryOf(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}
