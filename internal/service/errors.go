package service

import (
	"fmt"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// ServiceError represents a business logic error with a code. For state
// conflicts CurrentStatus carries the status actually observed.
type ServiceError struct {
	Err           error
	Message       string
	Code          string
	CurrentStatus string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeForbidden               = "forbidden"
	ErrCodeOfferNotFound           = "offer_not_found"
	ErrCodeTransactionNotFound     = "transaction_not_found"
	ErrCodeInvalidOfferState       = "invalid_offer_state"
	ErrCodeInvalidTransactionState = "invalid_transaction_state"
	ErrCodeStateConflict           = "state_conflict"
	ErrCodeActiveTransactionExists = "active_transaction_exists"
	ErrCodePaymentNotCompleted     = "payment_not_completed"
	ErrCodeInsufficientFunds       = "insufficient_funds"
	ErrCodePayeeNotConfigured      = "payee_not_configured"
	ErrCodeGatewayUnavailable      = "gateway_unavailable"
	ErrCodeCaptureFailed           = "capture_failed"
	ErrCodePayoutFailed            = "payout_failed"
	ErrCodeRefundFailed            = "refund_failed"
	ErrCodeDataError               = "data_error"
	ErrCodeInvalidRequest          = "invalid_request"
	ErrCodeInternalError           = "internal_error"
)

func forbidden(message string) *ServiceError {
	return &ServiceError{Code: ErrCodeForbidden, Message: message}
}

func invalidRequest(message string) *ServiceError {
	return &ServiceError{Code: ErrCodeInvalidRequest, Message: message}
}

func internalError(message string, err error) *ServiceError {
	return &ServiceError{Code: ErrCodeInternalError, Message: message, Err: err}
}

func dataError(message string, err error) *ServiceError {
	return &ServiceError{Code: ErrCodeDataError, Message: message, Err: err}
}

func invalidOfferState(offer *models.Offer) *ServiceError {
	return &ServiceError{
		Code:          ErrCodeInvalidOfferState,
		Message:       fmt.Sprintf("offer is %s; only pending offers can be decided", offer.Status),
		CurrentStatus: string(offer.Status),
	}
}

func invalidTransactionState(tx *models.Transaction, message string) *ServiceError {
	return &ServiceError{
		Code:          ErrCodeInvalidTransactionState,
		Message:       message,
		CurrentStatus: string(tx.Status),
	}
}

func stateConflict(message, currentStatus string) *ServiceError {
	return &ServiceError{
		Code:          ErrCodeStateConflict,
		Message:       message,
		CurrentStatus: currentStatus,
	}
}

func paymentNotCompleted() *ServiceError {
	return &ServiceError{
		Code:    ErrCodePaymentNotCompleted,
		Message: "the customer has not completed payment for this offer yet",
	}
}

func gatewayUnavailable(operation string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeGatewayUnavailable,
		Message: fmt.Sprintf("payment gateway did not confirm the %s; nothing was changed, retry later", operation),
		Err:     err,
	}
}
