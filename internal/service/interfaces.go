package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/fees"
	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

// PaymentGateway is the external gateway holding client funds.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error)
	GetOrderStatus(ctx context.Context, orderID string) (gateway.OrderStatus, error)
	CaptureOrder(ctx context.Context, orderID, idempotencyKey string) (*gateway.Capture, error)
	VoidOrder(ctx context.Context, orderID, idempotencyKey string) error
	Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.Refund, error)
	Payout(ctx context.Context, req gateway.PayoutRequest) (*gateway.Payout, error)
}

// Notifier delivers a notification to a user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, content string) error
}

// FeeConfigProvider supplies the fee percentages new transactions snapshot.
type FeeConfigProvider interface {
	Current(ctx context.Context) (fees.FeeConfig, error)
}

// Store gives access to repositories, on the pool or inside one database
// transaction.
type Store interface {
	Repositories() repository.Repositories
	WithinTx(ctx context.Context, fn func(repository.Repositories) error) error
}

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// OfferReviewer handles the provider's decision on an offer
type OfferReviewer interface {
	ApproveOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor) (*models.OfferOutcome, error)
	RejectOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor, reason string) (*models.OfferOutcome, error)
	GetOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor) (*models.Offer, error)
}

// PaymentProcessor handles the client side of a payment
type PaymentProcessor interface {
	OpenTransaction(ctx context.Context, offerID uuid.UUID, actor models.Actor, method models.PaymentMethodKind, captureID *string) (*models.Transaction, error)
	InitiatePayment(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.PaymentInitiation, error)
	CancelTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error)
}

// Settler moves captured funds out of escrow
type Settler interface {
	ReleaseFunds(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error)
	RefundTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor, reason string) (*models.Transaction, error)
}

// Reconciler brings local state in line with the gateway and exposes work
// for the external scheduler
type Reconciler interface {
	SyncPayment(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.PaymentSync, error)
	ListOverdueReviews(ctx context.Context, actor models.Actor, limit int) ([]*models.Transaction, error)
}

// Ensure concrete types implement interfaces
var (
	_ OfferReviewer     = (*Orchestrator)(nil)
	_ PaymentProcessor  = (*Orchestrator)(nil)
	_ Settler           = (*Orchestrator)(nil)
	_ Reconciler        = (*Orchestrator)(nil)
	_ Store             = (*repository.Store)(nil)
	_ PaymentGateway    = (*gateway.Client)(nil)
	_ FeeConfigProvider = (*fees.CachedProvider)(nil)
)
