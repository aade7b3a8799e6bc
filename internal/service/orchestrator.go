// Package service implements the escrow payment lifecycle: offer decisions,
// payment capture, provider payouts, refunds and cancellation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/config"
	"github.com/benx421/payment-gateway/escrow/internal/fees"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

// Notification types sent to marketplace users
const (
	NotificationOfferApproved        = "offer_approved"
	NotificationOfferRejected        = "offer_rejected"
	NotificationTransactionCancelled = "transaction_cancelled"
	NotificationPaymentVoided        = "payment_voided"
	NotificationFundsReleased        = "funds_released"
	NotificationPaymentRefunded      = "payment_refunded"
)

// Operation names used in gateway idempotency keys
const (
	opCreateOrder = "create-order"
	opCapture     = "capture"
	opVoid        = "void"
	opPayout      = "payout"
	opRefund      = "refund"
)

// Orchestrator drives offers and their transactions through the escrow
// lifecycle. Gateway calls never run inside a database transaction; every
// local write is a compare-and-set on the status the operation observed.
type Orchestrator struct {
	store        Store
	gateway      PaymentGateway
	notifier     Notifier
	fees         FeeConfigProvider
	logger       *slog.Logger
	now          func() time.Time
	currency     string
	reviewWindow time.Duration
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(
	store Store,
	paymentGateway PaymentGateway,
	notifier Notifier,
	feeProvider FeeConfigProvider,
	cfg config.AppConfig,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:        store,
		gateway:      paymentGateway,
		notifier:     notifier,
		fees:         feeProvider,
		logger:       logger,
		now:          time.Now,
		currency:     cfg.Currency,
		reviewWindow: cfg.ReviewWindow,
	}
}

func idempotencyKey(transactionID uuid.UUID, operation string) string {
	return transactionID.String() + ":" + operation
}

func (o *Orchestrator) loadOffer(ctx context.Context, offers repository.OfferRepository, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := offers.FindByID(ctx, offerID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{Code: ErrCodeOfferNotFound, Message: "offer not found"}
	}
	if err != nil {
		return nil, internalError("failed to load offer", err)
	}
	return offer, nil
}

func (o *Orchestrator) loadTransaction(ctx context.Context, txs repository.TransactionRepository, transactionID uuid.UUID) (*models.Transaction, error) {
	tx, err := txs.FindByID(ctx, transactionID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{Code: ErrCodeTransactionNotFound, Message: "transaction not found"}
	}
	if err != nil {
		return nil, internalError("failed to load transaction", err)
	}
	return tx, nil
}

// loadTransactionWithOffer loads a transaction and the offer it belongs to.
// A dangling offer reference is a data integrity failure.
func (o *Orchestrator) loadTransactionWithOffer(ctx context.Context, repos repository.Repositories, transactionID uuid.UUID) (*models.Transaction, *models.Offer, error) {
	tx, err := o.loadTransaction(ctx, repos.Transactions, transactionID)
	if err != nil {
		return nil, nil, err
	}

	offer, err := repos.Offers.FindByID(ctx, tx.OfferID)
	if errors.Is(err, models.ErrNotFound) {
		o.logger.Error("transaction references a missing offer",
			"transaction_id", tx.ID,
			"offer_id", tx.OfferID,
		)
		return nil, nil, dataError("transaction references a missing offer", err)
	}
	if err != nil {
		return nil, nil, internalError("failed to load offer", err)
	}

	return tx, offer, nil
}

// findActiveTransaction returns the offer's active transaction or nil.
func (o *Orchestrator) findActiveTransaction(ctx context.Context, txs repository.TransactionRepository, offerID uuid.UUID) (*models.Transaction, error) {
	tx, err := txs.FindActiveByOfferID(ctx, offerID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internalError("failed to load transaction", err)
	}
	return tx, nil
}

// transactionConflict builds the error for a compare-and-set that matched
// no row, reporting the status the transaction has now.
func (o *Orchestrator) transactionConflict(ctx context.Context, txs repository.TransactionRepository, transactionID uuid.UUID, message string) error {
	current := ""
	if tx, err := txs.FindByID(ctx, transactionID); err == nil {
		current = string(tx.Status)
	}
	return stateConflict(message, current)
}

func (o *Orchestrator) offerConflict(ctx context.Context, offers repository.OfferRepository, offerID uuid.UUID) error {
	current := ""
	if offer, err := offers.FindByID(ctx, offerID); err == nil {
		current = string(offer.Status)
	}
	return stateConflict("offer was changed by a concurrent request", current)
}

// split computes the money split from the transaction's fee snapshot.
func (o *Orchestrator) split(tx *models.Transaction) (fees.Split, error) {
	split, err := fees.ComputeSplit(tx.Amount, tx.ClientFeePercent, tx.ProviderFeePercent)
	if err != nil {
		return fees.Split{}, dataError("transaction amounts are inconsistent", err)
	}
	return split, nil
}

// notify sends a notification. Failures are logged and never returned.
func (o *Orchestrator) notify(ctx context.Context, userID uuid.UUID, kind, title, content string) {
	if err := o.notifier.Notify(ctx, userID, kind, title, content); err != nil {
		o.logger.Warn("failed to send notification",
			"user_id", userID,
			"type", kind,
			"error", err,
		)
	}
}

func isParticipant(actor models.Actor, offer *models.Offer) bool {
	return actor.IsAdmin() || actor.ID == offer.ClientID || actor.ID == offer.ProviderID
}
