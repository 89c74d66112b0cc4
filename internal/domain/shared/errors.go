package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ReasonCode is the machine-readable reason a command was rejected.
type ReasonCode string

const (
	ReasonFieldNotFound        ReasonCode = "FIELD_NOT_FOUND"
	ReasonInvalidSlot          ReasonCode = "INVALID_SLOT"
	ReasonWorkerNotFound       ReasonCode = "WORKER_NOT_FOUND"
	ReasonRoleMismatch         ReasonCode = "ROLE_MISMATCH"
	ReasonReservoirEmpty       ReasonCode = "RESERVOIR_EMPTY"
	ReasonDestinationFull      ReasonCode = "DESTINATION_FULL"
	ReasonFieldAlreadyTargeted ReasonCode = "FIELD_ALREADY_TARGETED"
	ReasonNoIdleUnit           ReasonCode = "NO_IDLE_UNIT"
)

// RejectionError reports a command that was refused by a guard.
// A rejected command leaves all state untouched.
type RejectionError struct {
	*DomainError
	Code ReasonCode
}

func NewRejectionError(code ReasonCode, format string, args ...interface{}) *RejectionError {
	return &RejectionError{
		DomainError: &DomainError{Message: fmt.Sprintf(format, args...)},
		Code:        code,
	}
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ReasonOf extracts the reason code from a rejection anywhere in err's chain.
func ReasonOf(err error) (ReasonCode, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Code, true
	}
	return "", false
}

// IsRejection reports whether err is a rejection with the given code.
func IsRejection(err error, code ReasonCode) bool {
	reason, ok := ReasonOf(err)
	return ok && reason == code
}
