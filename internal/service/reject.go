package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

// RejectOffer records the provider's rejection. The active transaction, if
// any, is declined whatever its status. Captured funds are not refunded
// here; that takes an explicit RefundTransaction call.
func (o *Orchestrator) RejectOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor, reason string) (*models.OfferOutcome, error) {
	reason, err := ValidateReason(reason)
	if err != nil {
		return nil, invalidRequest(err.Error())
	}

	repos := o.store.Repositories()

	offer, err := o.loadOfferForProvider(ctx, repos.Offers, offerID, actor)
	if err != nil {
		return nil, err
	}

	tx, err := o.findActiveTransaction(ctx, repos.Transactions, offer.ID)
	if err != nil {
		return nil, err
	}

	err = o.store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := o.transitionOffer(ctx, r.Offers, offer, models.OfferStatusRejected, "Rejection reason: "+reason); err != nil {
			return err
		}
		if tx == nil {
			return nil
		}
		if err := r.Transactions.UpdateStatus(ctx, tx.ID, tx.Status, models.TransactionStatusDeclined); err != nil {
			if errors.Is(err, models.ErrStatusConflict) {
				return o.transactionConflict(ctx, r.Transactions, tx.ID, "transaction was changed by a concurrent request")
			}
			return internalError("failed to decline transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tx != nil {
		tx.Status = models.TransactionStatusDeclined
		o.releaseUncapturedOrder(ctx, tx)
	}

	o.logger.Info("offer rejected", "offer_id", offer.ID)

	o.notify(ctx, offer.ClientID, NotificationOfferRejected,
		"Your request was rejected",
		"The provider rejected your request. Reason: "+reason,
	)

	return &models.OfferOutcome{Offer: offer, Transaction: tx}, nil
}

// releaseUncapturedOrder voids the gateway order of a transaction that will
// never be captured. Failures are logged only.
func (o *Orchestrator) releaseUncapturedOrder(ctx context.Context, tx *models.Transaction) {
	order, ok := tx.PaymentMethod().(models.GatewayOrder)
	if !ok || tx.IsCaptured() {
		return
	}

	if err := o.gateway.VoidOrder(ctx, order.OrderID, idempotencyKey(tx.ID, opVoid)); err != nil {
		o.logger.Warn("failed to void gateway order",
			"transaction_id", tx.ID,
			"order_id", order.OrderID,
			"error", err,
		)
	}
}
