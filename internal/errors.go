package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeOutsideHours     ErrorCode = "OUTSIDE_BUSINESS_HOURS"
	ErrCodeDateInPast       ErrorCode = "DATE_IN_PAST"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE_TRANSITION"

	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeRoomNotFound     ErrorCode = "ROOM_NOT_FOUND"
	ErrCodeBookingNotFound  ErrorCode = "BOOKING_NOT_FOUND"
	ErrCodeEventNotFound    ErrorCode = "EVENT_NOT_FOUND"
	ErrCodeSettingsNotFound ErrorCode = "SETTINGS_NOT_FOUND"

	ErrCodeRoomNotAvailable ErrorCode = "ROOM_NOT_AVAILABLE"
	ErrCodeEmailExists      ErrorCode = "EMAIL_ALREADY_EXISTS"
	ErrCodeRoomNameExists   ErrorCode = "ROOM_NAME_ALREADY_EXISTS"
	ErrCodeRoomInUse        ErrorCode = "ROOM_IN_USE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAccountTerminated  ErrorCode = "ACCOUNT_TERMINATED"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
)

// AppError is the single error shape services return for expected outcomes.
// Handlers map it onto an HTTP status; any other error is treated as an
// unexpected infrastructure failure and downgraded to a 500.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying the underlying error. Sentinels stay
// untouched so concurrent requests never share mutable state.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Join() string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrEmployeeNotFound = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrRoomNotFound     = NewNotFoundError("Room not found", ErrCodeRoomNotFound)
	ErrBookingNotFound  = NewNotFoundError("Booking not found", ErrCodeBookingNotFound)
	ErrEventNotFound    = NewNotFoundError("Event not found", ErrCodeEventNotFound)

	ErrRoomNotAvailable = NewConflictError("Room is already booked for this time", ErrCodeRoomNotAvailable)
	ErrEmailExists      = NewConflictError("An account with this email already exists", ErrCodeEmailExists)
	ErrRoomNameExists   = NewConflictError("A room with this name already exists", ErrCodeRoomNameExists)
	ErrRoomInUse        = NewValidationError("Room has upcoming bookings and cannot be removed", ErrCodeRoomInUse)

	ErrInvalidTimeRange = NewValidationError("End time must be after start time", ErrCodeInvalidTimeRange)
	ErrOutsideHours     = NewValidationError("Events must fall within business hours", ErrCodeOutsideHours)
	ErrDateInPast       = NewValidationError("Date must not be in the past", ErrCodeDateInPast)
	ErrInvalidRole      = NewValidationError("Role transition not allowed", ErrCodeInvalidRole)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrAccountTerminated  = NewForbiddenError("This account has been terminated", ErrCodeAccountTerminated)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrForbidden          = NewForbiddenError("Insufficient permissions", ErrCodeForbidden)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
