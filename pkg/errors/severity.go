// Package errors provides severity-aware error types.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// CastError is a structured error with context. The Detail field is what the
// API surfaces to the caller verbatim.
type CastError struct {
	Code        string   `json:"code"`
	Detail      string   `json:"detail"`
	Severity    Severity `json:"severity"`
	Field       string   `json:"field,omitempty"`
	Recoverable bool     `json:"recoverable"`
}

func (e *CastError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s (field: %s)", e.Severity, e.Code, e.Detail, e.Field)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Detail)
}

// Error codes
const (
	ErrCodeValidation    = "VALIDATION_FAILED"
	ErrCodeUnknownRoute  = "UNKNOWN_ROUTE"
	ErrCodeUnknownOption = "UNKNOWN_OPTION"
	ErrCodeBadDate       = "INVALID_DATE"
	ErrCodeModelFailed   = "MODEL_FAILED"
	ErrCodeStoreFailed   = "STORE_FAILED"
)

// NewValidationError flags a request field that failed validation. These are
// recoverable: the caller can correct the field and resubmit.
func NewValidationError(field, detail string) *CastError {
	return &CastError{
		Code:        ErrCodeValidation,
		Detail:      detail,
		Severity:    SeverityWarning,
		Field:       field,
		Recoverable: true,
	}
}

// NewUnknownRouteError is returned for a route number outside the timetable.
func NewUnknownRouteError(routeNo string) *CastError {
	return &CastError{
		Code:        ErrCodeUnknownRoute,
		Detail:      fmt.Sprintf("Unknown route_no: %s", routeNo),
		Severity:    SeverityWarning,
		Field:       "route_no",
		Recoverable: true,
	}
}

// NewUnknownOptionError is returned for a categorical value the model has no
// encoding for.
func NewUnknownOptionError(field, value string) *CastError {
	return &CastError{
		Code:        ErrCodeUnknownOption,
		Detail:      fmt.Sprintf("Unknown %s: %s", field, value),
		Severity:    SeverityWarning,
		Field:       field,
		Recoverable: true,
	}
}

// NewModelError wraps a scoring failure. Not recoverable by resubmitting.
func NewModelError(detail string) *CastError {
	return &CastError{
		Code:        ErrCodeModelFailed,
		Detail:      detail,
		Severity:    SeverityError,
		Recoverable: false,
	}
}
