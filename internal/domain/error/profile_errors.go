// Package error defines domain-specific errors for the insight service.
package error

import "errors"

// Profile domain errors.
var (
	// ErrProfileNotFound is returned when the user has no behavioral profile yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidPersonality is returned when the personality type is unknown.
	ErrInvalidPersonality = errors.New("invalid personality type")

	// ErrInvalidStressLevel is returned when the stress level is unknown.
	ErrInvalidStressLevel = errors.New("invalid stress level")

	// ErrInvalidCategory is returned when an enabled category is unknown.
	ErrInvalidCategory = errors.New("invalid insight category")

	// ErrInvalidDailyCap is returned when the daily insight cap is out of range.
	ErrInvalidDailyCap = errors.New("daily insight cap must be between 1 and 20")

	// ErrInvalidNotificationTime is returned when the notification time is not HH:MM.
	ErrInvalidNotificationTime = errors.New("notification time must be HH:MM")

	// ErrInvalidTimezone is returned when the time zone is not a known IANA name.
	ErrInvalidTimezone = errors.New("invalid time zone")
)

// ProfileErrorCode defines error codes for profile errors.
// Format: PRF-XXYYYY where XX is category and YYYY is specific error.
type ProfileErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPersonality      ProfileErrorCode = "PRF-010001"
	ErrCodeInvalidStressLevel      ProfileErrorCode = "PRF-010002"
	ErrCodeInvalidCategory         ProfileErrorCode = "PRF-010003"
	ErrCodeInvalidDailyCap         ProfileErrorCode = "PRF-010004"
	ErrCodeInvalidNotificationTime ProfileErrorCode = "PRF-010005"
	ErrCodeMissingProfileFields    ProfileErrorCode = "PRF-010006"
	ErrCodeInvalidTimezone         ProfileErrorCode = "PRF-010007"

	// Not found errors (02XXXX)
	ErrCodeProfileNotFound ProfileErrorCode = "PRF-020001"
)

// ProfileError represents a profile error with code and message.
type ProfileError struct {
	Code    ProfileErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ProfileError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ProfileError) Unwrap() error {
	return e.Err
}

// NewProfileError creates a new ProfileError with the given code and message.
func NewProfileError(code ProfileErrorCode, message string, err error) *ProfileError {
	return &ProfileError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
