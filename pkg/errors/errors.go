package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidLoanTerms       = errors.New("invalid loan terms")
	ErrInvalidPayment         = errors.New("invalid payment")
	ErrLoanAlreadySettled     = errors.New("loan is already settled")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrInconsistentLedger     = errors.New("ledger state is inconsistent")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrMemberNotFound         = errors.New("member not found")
	ErrFineNotFound           = errors.New("fine not found")
	ErrPaymentNotFound        = errors.New("payment not found")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code      string
	Message   string
	Err       error
	Retryable bool
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
	ErrCodeInvalidLoanTerms       = "INVALID_LOAN_TERMS"
	ErrCodeInvalidPayment         = "INVALID_PAYMENT"
	ErrCodeLoanAlreadySettled     = "LOAN_ALREADY_SETTLED"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeInconsistentLedger     = "INCONSISTENT_LEDGER"
	ErrCodeLoanNotFound           = "LOAN_NOT_FOUND"
	ErrCodeMemberNotFound         = "MEMBER_NOT_FOUND"
	ErrCodeFineNotFound           = "FINE_NOT_FOUND"
	ErrCodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapInvalidLoanTerms(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanTerms,
		reason,
		ErrInvalidLoanTerms,
	)
}

func WrapInvalidPayment(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPayment,
		reason,
		ErrInvalidPayment,
	)
}

func WrapLoanAlreadySettled(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadySettled,
		fmt.Sprintf("Loan %s has no outstanding installments", loanID),
		ErrLoanAlreadySettled,
	)
}

// WrapConcurrentModification marks the error retryable so callers know the
// operation can be re-attempted against a fresh snapshot.
func WrapConcurrentModification(err error) *BusinessError {
	return &BusinessError{
		Code:      ErrCodeConcurrentModification,
		Message:   "transaction conflict, retry the operation",
		Err:       errors.Join(ErrConcurrentModification, err),
		Retryable: true,
	}
}

// WrapInconsistentLedger flags an invariant violation found during replay.
// These are never corrected silently; the operator must reconcile.
func WrapInconsistentLedger(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeInconsistentLedger,
		detail,
		ErrInconsistentLedger,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapMemberNotFound(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeMemberNotFound,
		fmt.Sprintf("Member %s not found", memberID),
		ErrMemberNotFound,
	)
}

func WrapFineNotFound(fineID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFineNotFound,
		fmt.Sprintf("Fine %s not found", fineID),
		ErrFineNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment %s not found", paymentID),
		ErrPaymentNotFound,
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

// IsRetryable reports whether err carries a retryable business error.
func IsRetryable(err error) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Retryable
	}
	return false
}
