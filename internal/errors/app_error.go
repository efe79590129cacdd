package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError classifies every failure the storefront core can surface: input
// caught before any network call, a well-formed refusal from the backend, or
// a transport-level fault. Callers branch on Code to pick the right messaging.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBusiness        = "BUSINESS_REJECTION"
	ErrCodeTransport       = "TRANSPORT_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodePaymentDeclined = "PAYMENT_DECLINED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ValidationError is for input rejected before any network call.
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

// BusinessError is for a well-formed server response that refuses the
// request (insufficient stock, invalid coupon). Always carries a
// user-facing message.
func BusinessError(message string) *AppError {
	return NewAppError(ErrCodeBusiness, message, http.StatusBadRequest)
}

// TransportError is for network failures and unexpected server errors. The
// caller should surface a generic retry prompt.
func TransportError(message string) *AppError {
	return NewAppError(ErrCodeTransport, message, http.StatusBadGateway)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

// PaymentDeclinedError is a designed-in simulated outcome, not a fault.
func PaymentDeclinedError(message string) *AppError {
	return NewAppError(ErrCodePaymentDeclined, message, http.StatusPaymentRequired)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// IsBusiness reports whether err is a business rejection, meaning the
// request was understood and refused with a user-facing message.
func IsBusiness(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == ErrCodeBusiness
	}

	return false
}

// IsTransport reports whether err should be surfaced as "try again".
func IsTransport(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == ErrCodeTransport
	}

	return false
}

func IsNotFound(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == ErrCodeNotFound
	}

	return false
}

func IsPaymentDeclined(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == ErrCodePaymentDeclined
	}

	return false
}

// UserMessage extracts the message a user should see for err: the carried
// message for classified errors, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	if appErr, ok := IsAppError(err); ok && appErr.Message != "" {
		return appErr.Message
	}

	return fallback
}

// AddValidationError builds a validation error for a single named field.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
