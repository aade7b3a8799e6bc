package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

// SyncPayment asks the gateway for the current state of a transaction's
// order. An order the gateway voided cancels the local transaction; any
// other status is only reported.
func (o *Orchestrator) SyncPayment(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.PaymentSync, error) {
	repos := o.store.Repositories()

	tx, offer, err := o.loadTransactionWithOffer(ctx, repos, transactionID)
	if err != nil {
		return nil, err
	}

	if !isParticipant(actor, offer) {
		return nil, forbidden("not a participant of this transaction")
	}

	order, ok := tx.PaymentMethod().(models.GatewayOrder)
	if !ok {
		return nil, invalidTransactionState(tx, "transaction has no gateway order to sync")
	}

	status, err := o.gateway.GetOrderStatus(ctx, order.OrderID)
	if err != nil {
		return nil, orderLookupError(err)
	}

	result := &models.PaymentSync{Transaction: tx, OrderStatus: string(status)}

	if status != gateway.OrderVoided || tx.IsCaptured() || !tx.IsCancellable() {
		return result, nil
	}

	err = o.store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Transactions.UpdateStatus(ctx, tx.ID, tx.Status, models.TransactionStatusCancelled); err != nil {
			if errors.Is(err, models.ErrStatusConflict) {
				return o.transactionConflict(ctx, r.Transactions, tx.ID, "transaction was changed by a concurrent request")
			}
			return internalError("failed to cancel transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tx.Status = models.TransactionStatusCancelled

	o.logger.Info("gateway voided order, transaction cancelled",
		"transaction_id", tx.ID,
		"order_id", order.OrderID,
	)

	o.notify(ctx, offer.ClientID, NotificationPaymentVoided,
		"Payment expired",
		"Your payment was voided by the payment provider. You can pay again while the request is pending.",
	)

	return result, nil
}

// ListOverdueReviews returns transactions whose provider review deadline
// has passed, for the external scheduler to act on.
func (o *Orchestrator) ListOverdueReviews(ctx context.Context, actor models.Actor, limit int) ([]*models.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only an administrator can list overdue reviews")
	}

	txs, err := o.store.Repositories().Transactions.ListOverdueReviews(ctx, o.now(), NormalizeLimit(limit))
	if err != nil {
		return nil, internalError("failed to list overdue reviews", err)
	}

	return txs, nil
}

// GetTransaction returns a transaction to a participant of its offer
func (o *Orchestrator) GetTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error) {
	tx, offer, err := o.loadTransactionWithOffer(ctx, o.store.Repositories(), transactionID)
	if err != nil {
		return nil, err
	}

	if !isParticipant(actor, offer) {
		return nil, forbidden("not a participant of this transaction")
	}

	return tx, nil
}
