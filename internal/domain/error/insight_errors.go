// Package error defines domain-specific errors for the insight service.
package error

import "errors"

// Insight domain errors.
var (
	// ErrInvalidTrigger is returned when a trigger is not a known scheduling event.
	ErrInvalidTrigger = errors.New("invalid trigger")

	// ErrInsightNotFound is returned when a stored insight is not found.
	ErrInsightNotFound = errors.New("insight not found")

	// ErrUnauthorizedInsightAccess is returned when an insight belongs to another user.
	ErrUnauthorizedInsightAccess = errors.New("unauthorized access to insight")

	// ErrRuleAlreadyRegistered is returned when a rule id is registered twice.
	ErrRuleAlreadyRegistered = errors.New("rule already registered")

	// ErrRuleNotFound is returned when unregistering an unknown rule.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrRulePanicked is wrapped around values recovered from a panicking rule.
	ErrRulePanicked = errors.New("rule panicked")

	// ErrContextUnavailable is returned when the rule context could not be loaded.
	ErrContextUnavailable = errors.New("rule context unavailable")
)

// InsightErrorCode defines error codes for insight errors.
// Format: INS-XXYYYY where XX is category and YYYY is specific error.
type InsightErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTrigger    InsightErrorCode = "INS-010001"
	ErrCodeMissingFields     InsightErrorCode = "INS-010002"
	ErrCodeRuleAlreadyExists InsightErrorCode = "INS-010003"

	// Not found errors (02XXXX)
	ErrCodeInsightNotFound     InsightErrorCode = "INS-020001"
	ErrCodeUnauthorizedInsight InsightErrorCode = "INS-020002"
	ErrCodeRuleNotFound        InsightErrorCode = "INS-020003"

	// Internal errors (99XXXX)
	ErrCodeProfileLookupFailed InsightErrorCode = "INS-990001"
	ErrCodeContextLoadFailed   InsightErrorCode = "INS-990002"
	ErrCodePersistFailed       InsightErrorCode = "INS-990003"
)

// InsightError represents an insight error with code and message.
type InsightError struct {
	Code    InsightErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *InsightError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *InsightError) Unwrap() error {
	return e.Err
}

// NewInsightError creates a new InsightError with the given code and message.
func NewInsightError(code InsightErrorCode, message string, err error) *InsightError {
	return &InsightError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
