// Package error defines domain-specific errors for the insight service.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionDate is returned when the transaction date is invalid.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidTransactionAmount is returned when the amount is zero or has the wrong sign.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrMissingTransactionCategory is returned when no category is provided.
	ErrMissingTransactionCategory = errors.New("transaction category is required")

	// ErrNotesTooLong is returned when the transaction note exceeds the maximum length.
	ErrNotesTooLong = errors.New("notes too long")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010003"
	ErrCodeMissingCategory          TransactionErrorCode = "TXN-010004"
	ErrCodeNotesTooLong             TransactionErrorCode = "TXN-010005"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010006"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
