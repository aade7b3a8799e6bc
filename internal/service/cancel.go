package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

// CancelTransaction withdraws the client from a transaction that has not
// been completed. An uncaptured gateway order is voided on a best-effort
// basis; the local cancellation happens either way. Captured money stays
// with the platform until it is refunded. A still-pending offer is
// cancelled along with it.
func (o *Orchestrator) CancelTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error) {
	repos := o.store.Repositories()

	tx, offer, err := o.loadTransactionWithOffer(ctx, repos, transactionID)
	if err != nil {
		return nil, err
	}

	if actor.ID != offer.ClientID {
		return nil, forbidden("only the client of this transaction can cancel it")
	}

	if !tx.IsCancellable() {
		return nil, invalidTransactionState(tx, fmt.Sprintf("transaction is %s and can no longer be cancelled", tx.Status))
	}

	o.releaseUncapturedOrder(ctx, tx)

	err = o.store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Transactions.UpdateStatus(ctx, tx.ID, tx.Status, models.TransactionStatusCancelled); err != nil {
			if errors.Is(err, models.ErrStatusConflict) {
				return o.transactionConflict(ctx, r.Transactions, tx.ID, "transaction was changed by a concurrent request")
			}
			return internalError("failed to cancel transaction", err)
		}
		if offer.Status != models.OfferStatusPending {
			return nil
		}
		return o.transitionOffer(ctx, r.Offers, offer, models.OfferStatusCancelled, "")
	})
	if err != nil {
		return nil, err
	}

	tx.Status = models.TransactionStatusCancelled

	o.logger.Info("transaction cancelled",
		"transaction_id", tx.ID,
		"offer_id", offer.ID,
		"captured", tx.IsCaptured(),
	)

	o.notify(ctx, offer.ProviderID, NotificationTransactionCancelled,
		"Request cancelled",
		"The client cancelled their request and payment.",
	)

	return tx, nil
}
