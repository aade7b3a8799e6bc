// Package gateway is the HTTP adapter for the external payment gateway that
// holds client funds between checkout and payout.
package gateway

import "github.com/shopspring/decimal"

// OrderStatus is the gateway-side state of a checkout order.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderApproved  OrderStatus = "APPROVED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderVoided    OrderStatus = "VOIDED"
)

// Capturable reports whether the buyer has approved the order.
func (s OrderStatus) Capturable() bool {
	return s == OrderApproved || s == OrderCompleted
}

// CreateOrderRequest asks the gateway to open a checkout order.
type CreateOrderRequest struct {
	Metadata       map[string]string `json:"metadata,omitempty"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	IdempotencyKey string            `json:"-"`
}

// Order is a checkout order as reported by the gateway.
type Order struct {
	ID         string      `json:"id"`
	Status     OrderStatus `json:"status"`
	ApproveURL string      `json:"approve_url,omitempty"`
}

// Capture is the result of capturing an approved order.
type Capture struct {
	ID     string `json:"capture_id"`
	Status string `json:"status"`
}

// RefundRequest returns captured funds to the payer.
type RefundRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	CaptureID      string          `json:"-"`
	Currency       string          `json:"currency"`
	Reason         string          `json:"reason,omitempty"`
	IdempotencyKey string          `json:"-"`
}

// Refund is the result of a refund.
type Refund struct {
	ID     string `json:"refund_id"`
	Status string `json:"status"`
}

// PayoutRequest sends funds from the platform balance to a payee.
type PayoutRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Payee          string          `json:"payee"`
	Currency       string          `json:"currency"`
	IdempotencyKey string          `json:"-"`
}

// Payout is the result of a payout.
type Payout struct {
	ID     string `json:"payout_id"`
	Status string `json:"status"`
}

// ErrorResponse is the error body returned by the gateway.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
