package api

import (
	"time"

	"github.com/google/uuid"
)

// ErrorCode is the machine-readable error identifier in an Error body
type ErrorCode string

const (
	ErrorCodeUnauthorized            ErrorCode = "unauthorized"
	ErrorCodeForbidden               ErrorCode = "forbidden"
	ErrorCodeOfferNotFound           ErrorCode = "offer_not_found"
	ErrorCodeTransactionNotFound     ErrorCode = "transaction_not_found"
	ErrorCodeInvalidOfferState       ErrorCode = "invalid_offer_state"
	ErrorCodeInvalidTransactionState ErrorCode = "invalid_transaction_state"
	ErrorCodeStateConflict           ErrorCode = "state_conflict"
	ErrorCodeActiveTransactionExists ErrorCode = "active_transaction_exists"
	ErrorCodePaymentNotCompleted     ErrorCode = "payment_not_completed"
	ErrorCodeInsufficientFunds       ErrorCode = "insufficient_funds"
	ErrorCodePayeeNotConfigured      ErrorCode = "payee_not_configured"
	ErrorCodeGatewayUnavailable      ErrorCode = "gateway_unavailable"
	ErrorCodeCaptureFailed           ErrorCode = "capture_failed"
	ErrorCodePayoutFailed            ErrorCode = "payout_failed"
	ErrorCodeRefundFailed            ErrorCode = "refund_failed"
	ErrorCodeDataError               ErrorCode = "data_error"
	ErrorCodeInvalidRequest          ErrorCode = "invalid_request"
	ErrorCodeInternalError           ErrorCode = "internal_error"
)

// HealthStatus defines model for HealthResponse.Status
type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Unhealthy HealthStatus = "unhealthy"
)

// HealthResponse defines model for HealthResponse
type HealthResponse struct {
	Status HealthStatus `json:"status"`
}

// Error defines model for Error
type Error struct {
	CurrentStatus *string   `json:"current_status,omitempty"`
	Error         ErrorCode `json:"error"`
	Message       string    `json:"message"`
}

// OpenTransactionRequest defines model for OpenTransactionRequest
type OpenTransactionRequest struct {
	CaptureId     *string `json:"capture_id,omitempty"`
	PaymentMethod string  `json:"payment_method"`
}

// ReasonRequest defines model for ReasonRequest
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// Offer defines model for Offer
type Offer struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Price       string    `json:"price"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Id          uuid.UUID `json:"id"`
	ClientId    uuid.UUID `json:"client_id"`
	ProviderId  uuid.UUID `json:"provider_id"`
	ServiceId   uuid.UUID `json:"service_id"`
}

// Transaction defines model for Transaction
type Transaction struct {
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	TransferDate       *time.Time `json:"transfer_date,omitempty"`
	ReviewDeadline     *time.Time `json:"review_deadline,omitempty"`
	PaymentIntentId    *string    `json:"payment_intent_id,omitempty"`
	CaptureId          *string    `json:"capture_id,omitempty"`
	TransferId         *string    `json:"transfer_id,omitempty"`
	RefundId           *string    `json:"refund_id,omitempty"`
	Status             string     `json:"status"`
	PaymentMethod      string     `json:"payment_method"`
	Amount             string     `json:"amount"`
	Currency           string     `json:"currency"`
	ClientFeePercent   string     `json:"client_fee_percent"`
	ProviderFeePercent string     `json:"provider_fee_percent"`
	ClientPays         string     `json:"client_pays"`
	ProviderReceives   string     `json:"provider_receives"`
	PlatformCommission string     `json:"platform_commission"`
	TransferStatus     string     `json:"transfer_status"`
	Id                 uuid.UUID  `json:"id"`
	OfferId            uuid.UUID  `json:"offer_id"`
}

// TransactionList defines model for TransactionList
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
}

// OfferOutcome defines model for OfferOutcome
type OfferOutcome struct {
	Transaction *Transaction `json:"transaction,omitempty"`
	Offer       Offer        `json:"offer"`
}

// PaymentInitiation defines model for PaymentInitiation
type PaymentInitiation struct {
	ApproveUrl  string      `json:"approve_url"`
	Transaction Transaction `json:"transaction"`
}

// PaymentSync defines model for PaymentSync
type PaymentSync struct {
	OrderStatus string      `json:"order_status"`
	Transaction Transaction `json:"transaction"`
}

// ListOverdueReviewsParams defines parameters for ListOverdueReviews
type ListOverdueReviewsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}
