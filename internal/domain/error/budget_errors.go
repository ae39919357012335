// Package error defines domain-specific errors for the insight service.
package error

import "errors"

// Budget domain errors.
var (
	// ErrInvalidBudgetAmount is returned when a budget figure is negative.
	ErrInvalidBudgetAmount = errors.New("budget amounts must not be negative")

	// ErrInvalidStreak is returned when a streak counter is negative.
	ErrInvalidStreak = errors.New("streak counters must not be negative")

	// ErrInvalidWarModeLevel is returned for a level other than green, yellow or red.
	ErrInvalidWarModeLevel = errors.New("invalid war mode level")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BUD-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidBudgetAmount BudgetErrorCode = "BUD-010001"
	ErrCodeMissingBudgetFields BudgetErrorCode = "BUD-010002"
	ErrCodeInvalidStreak       BudgetErrorCode = "BUD-010003"
	ErrCodeInvalidWarModeLevel BudgetErrorCode = "BUD-010004"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
