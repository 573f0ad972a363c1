package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain sentinel errors for the referral ledger
var (
	// ErrInvalidAmount is returned for negative sale amounts
	ErrInvalidAmount = errors.New("sale amount must not be negative")
	// ErrPurchaseNotFound is returned when no purchase row exists
	ErrPurchaseNotFound = errors.New("purchase not found")
	// ErrPurchaseNotCompleted is returned when the purchase has not succeeded yet
	ErrPurchaseNotCompleted = errors.New("purchase is not completed")
	// ErrInsufficientBalance is returned when a payout request exceeds the pending balance
	ErrInsufficientBalance = errors.New("requested amount exceeds available balance")
	// ErrBelowMinimumPayout is returned when a payout request is under the configured minimum
	ErrBelowMinimumPayout = errors.New("requested amount is below the minimum payout")
	// ErrInvalidPayoutStatus is returned for a disallowed payout status transition
	ErrInvalidPayoutStatus = errors.New("invalid payout status transition")
)

// NewError creates a new error with a message
func NewError(message string) error {
	return errors.New(message)
}

// AppError represents an application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// GetAppError returns the AppError if the error is an AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
