package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrDebtNotFound            = errors.New("debt not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrInvalidDebtTerms        = errors.New("invalid debt terms")
	ErrUnpayableDebt           = errors.New("minimum payment does not cover accruing interest")
	ErrScheduleNotConverged    = errors.New("schedule did not converge within the period cap")
	ErrPaymentAlreadyCompleted = errors.New("payment is already completed")
	ErrInvalidPaymentAmount    = errors.New("invalid payment amount")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDebtNotFound            = "DEBT_NOT_FOUND"
	ErrCodePaymentNotFound         = "PAYMENT_NOT_FOUND"
	ErrCodeInvalidDebtTerms        = "INVALID_DEBT_TERMS"
	ErrCodeUnpayableDebt           = "UNPAYABLE_DEBT"
	ErrCodeScheduleNotConverged    = "SCHEDULE_NOT_CONVERGED"
	ErrCodePaymentAlreadyCompleted = "PAYMENT_ALREADY_COMPLETED"
	ErrCodeInvalidPaymentAmount    = "INVALID_PAYMENT_AMOUNT"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeCacheError              = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapDebtNotFound(debtID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDebtNotFound,
		fmt.Sprintf("Debt with ID %s not found", debtID),
		ErrDebtNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapInvalidDebtTerms(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDebtTerms,
		detail,
		ErrInvalidDebtTerms,
	)
}

func WrapUnpayableDebt(debtID string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnpayableDebt,
		fmt.Sprintf("Debt %s cannot be paid off: minimum payment does not cover monthly interest", debtID),
		ErrUnpayableDebt,
	)
}

func WrapScheduleNotConverged(debtID string, cap int) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleNotConverged,
		fmt.Sprintf("Schedule for debt %s did not reach zero balance within %d periods", debtID, cap),
		ErrScheduleNotConverged,
	)
}

func WrapPaymentAlreadyCompleted(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentAlreadyCompleted,
		fmt.Sprintf("Payment %s has already been completed", paymentID),
		ErrPaymentAlreadyCompleted,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
