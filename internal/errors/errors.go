package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used with Mark. Match them with errors.Is or the Is* helpers.
var (
	ErrNotFound                = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists           = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation              = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation        = new(ErrCodeInvalidOperation, "invalid operation")
	ErrInvalidDate             = new(ErrCodeInvalidDate, "invalid date")
	ErrUnsupportedBillingCycle = new(ErrCodeUnsupportedBillingCycle, "unsupported billing cycle")
	ErrDatabase                = new(ErrCodeDatabase, "database error")
	ErrSystem                  = new(ErrCodeSystemError, "system error")

	statusCodeMap = map[error]int{
		ErrNotFound:                http.StatusNotFound,
		ErrAlreadyExists:           http.StatusConflict,
		ErrValidation:              http.StatusBadRequest,
		ErrInvalidOperation:        http.StatusBadRequest,
		ErrInvalidDate:             http.StatusBadRequest,
		ErrUnsupportedBillingCycle: http.StatusBadRequest,
		ErrDatabase:                http.StatusInternalServerError,
		ErrSystem:                  http.StatusInternalServerError,
	}
)

const (
	ErrCodeNotFound                = "not_found"
	ErrCodeAlreadyExists           = "already_exists"
	ErrCodeValidation              = "validation_error"
	ErrCodeInvalidOperation        = "invalid_operation"
	ErrCodeInvalidDate             = "invalid_date"
	ErrCodeUnsupportedBillingCycle = "unsupported_billing_cycle"
	ErrCodeDatabase                = "database_error"
	ErrCodeSystemError             = "system_error"
)

// InternalError is the sentinel type behind the Err* values above.
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is matches two InternalErrors by code
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsInvalidDate reports whether err came from a date that could not be parsed
func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}

// IsUnsupportedBillingCycle reports whether err came from an unknown billing cycle value
func IsUnsupportedBillingCycle(err error) bool {
	return errors.Is(err, ErrUnsupportedBillingCycle)
}

// HTTPStatusFromErr maps a marked error to its response status.
// Unmarked errors are treated as internal errors.
func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
