package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

// ApproveOffer records the provider's approval. When the offer has a gateway
// order the buyer must have approved it; it is captured before anything is
// written, and the offer and transaction are then updated together.
//
// A failed capture leaves the offer PENDING and the transaction in review
// with a fresh deadline, so the provider can approve again later.
func (o *Orchestrator) ApproveOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor) (*models.OfferOutcome, error) {
	repos := o.store.Repositories()

	offer, err := o.loadOfferForProvider(ctx, repos.Offers, offerID, actor)
	if err != nil {
		return nil, err
	}

	tx, err := o.findActiveTransaction(ctx, repos.Transactions, offer.ID)
	if err != nil {
		return nil, err
	}

	var captureID *string
	completeTx := false

	if tx != nil && tx.Status != models.TransactionStatusCompleted {
		if tx.Status == models.TransactionStatusPending {
			return nil, paymentNotCompleted()
		}
		if err := tx.CanTransitionTo(models.TransactionStatusCompleted); err != nil {
			return nil, invalidTransactionState(tx, fmt.Sprintf("transaction is %s and cannot be completed", tx.Status))
		}

		switch method := tx.PaymentMethod().(type) {
		case models.GatewayOrder:
			id, err := o.captureApprovedOrder(ctx, repos.Transactions, tx, method.OrderID)
			if err != nil {
				return nil, err
			}
			captureID = &id
		case models.PreCaptured:
			captureID = method.CaptureID
		case models.AwaitingOrder:
			return nil, paymentNotCompleted()
		default:
			return nil, dataError(fmt.Sprintf("unknown payment method %T", method), nil)
		}
		completeTx = true
	}

	err = o.store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := o.transitionOffer(ctx, r.Offers, offer, models.OfferStatusApproved, ""); err != nil {
			return err
		}
		if !completeTx {
			return nil
		}
		if err := r.Transactions.MarkCompleted(ctx, tx.ID, tx.Status, captureID); err != nil {
			if errors.Is(err, models.ErrStatusConflict) {
				return o.transactionConflict(ctx, r.Transactions, tx.ID, "transaction was changed by a concurrent request")
			}
			return internalError("failed to complete transaction", err)
		}
		return nil
	})
	if err != nil {
		if captureID != nil && tx.CaptureID == nil {
			o.keepCapture(ctx, repos.Transactions, tx, *captureID, err)
		}
		return nil, err
	}

	if completeTx {
		tx.Status = models.TransactionStatusCompleted
		if tx.CaptureID == nil {
			tx.CaptureID = captureID
		}
	}

	o.logger.Info("offer approved", "offer_id", offer.ID, "transaction_completed", completeTx)

	o.notify(ctx, offer.ClientID, NotificationOfferApproved,
		"Your request was approved",
		"The provider approved your request and the payment has been secured.",
	)

	return &models.OfferOutcome{Offer: offer, Transaction: tx}, nil
}

// keepCapture stores the id of a capture whose approval could not be
// committed, so the money stays refundable whatever state the transaction
// moved to.
func (o *Orchestrator) keepCapture(ctx context.Context, txs repository.TransactionRepository, tx *models.Transaction, captureID string, cause error) {
	o.logger.Error("funds captured but approval was not recorded",
		"transaction_id", tx.ID,
		"capture_id", captureID,
		"error", cause,
	)

	if err := txs.RecordCapture(context.WithoutCancel(ctx), tx.ID, captureID); err != nil {
		o.logger.Error("failed to record capture id",
			"transaction_id", tx.ID,
			"capture_id", captureID,
			"error", err,
		)
		return
	}
	tx.CaptureID = &captureID
}

// captureApprovedOrder checks that the buyer approved the order and captures
// it. No local state is written unless the capture definitively failed, in
// which case the review window is reopened.
func (o *Orchestrator) captureApprovedOrder(ctx context.Context, txs repository.TransactionRepository, tx *models.Transaction, orderID string) (string, error) {
	status, err := o.gateway.GetOrderStatus(ctx, orderID)
	if err != nil {
		return "", orderLookupError(err)
	}

	if !status.Capturable() {
		o.logger.Info("approve blocked: order not approved by buyer",
			"transaction_id", tx.ID,
			"order_status", status,
		)
		return "", paymentNotCompleted()
	}

	capture, err := o.gateway.CaptureOrder(ctx, orderID, idempotencyKey(tx.ID, opCapture))
	switch {
	case err == nil:
		return capture.ID, nil
	case gateway.IsUnavailable(err):
		return "", gatewayUnavailable("capture", err)
	case errors.Is(err, gateway.ErrOrderNotApproved):
		return "", paymentNotCompleted()
	case errors.Is(err, gateway.ErrNotFound):
		return "", orderLookupError(err)
	}

	o.logger.Warn("capture failed, reopening review window",
		"transaction_id", tx.ID,
		"error", err,
	)

	if tx.Status == models.TransactionStatusProviderReview {
		deadline := o.now().Add(o.reviewWindow)
		if extErr := txs.ExtendReviewDeadline(ctx, tx.ID, deadline); extErr != nil {
			o.logger.Error("failed to extend review deadline", "transaction_id", tx.ID, "error", extErr)
		} else {
			tx.ReviewDeadline = &deadline
		}
	}

	return "", &ServiceError{
		Code:          ErrCodeCaptureFailed,
		Message:       "the payment could not be captured; the offer stays pending and can be approved again",
		Err:           err,
		CurrentStatus: string(tx.Status),
	}
}

// orderLookupError maps a failed order read. An order the gateway does not
// know is a data problem that retrying cannot fix.
func orderLookupError(err error) *ServiceError {
	if errors.Is(err, gateway.ErrNotFound) {
		return dataError("payment gateway has no record of this transaction's order", err)
	}
	return gatewayUnavailable("order status", err)
}
