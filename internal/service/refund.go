package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// RefundTransaction returns what the client paid. Only captured payments
// that were not paid out to the provider can be refunded; on any gateway
// failure local state is left as it was.
func (o *Orchestrator) RefundTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor, reason string) (*models.Transaction, error) {
	reason, err := ValidateReason(reason)
	if err != nil {
		return nil, invalidRequest(err.Error())
	}

	repos := o.store.Repositories()

	tx, offer, err := o.loadTransactionWithOffer(ctx, repos, transactionID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !(actor.Role == models.RoleProvider && actor.ID == offer.ProviderID) {
		return nil, forbidden("only an administrator or the provider can refund a payment")
	}

	switch tx.Status {
	case models.TransactionStatusCompleted, models.TransactionStatusProviderReview,
		models.TransactionStatusDeclined, models.TransactionStatusCancelled:
	default:
		return nil, invalidTransactionState(tx, fmt.Sprintf("transaction is %s and cannot be refunded", tx.Status))
	}

	if !tx.IsCaptured() {
		return nil, stateConflict("payment was never captured; there is nothing to refund", string(tx.Status))
	}
	if tx.IsPaidOut() {
		return nil, stateConflict("funds were already released to the provider and cannot be refunded", string(tx.Status))
	}

	split, err := o.split(tx)
	if err != nil {
		return nil, err
	}

	refund, err := o.gateway.Refund(ctx, gateway.RefundRequest{
		CaptureID:      *tx.CaptureID,
		Amount:         split.ClientPays,
		Currency:       tx.Currency,
		Reason:         reason,
		IdempotencyKey: idempotencyKey(tx.ID, opRefund),
	})
	if err != nil {
		o.logger.Warn("refund failed", "transaction_id", tx.ID, "error", err)
		return nil, refundError(err)
	}

	if err := repos.Transactions.MarkRefunded(ctx, tx.ID, tx.Status, refund.ID); err != nil {
		if errors.Is(err, models.ErrStatusConflict) {
			return nil, o.transactionConflict(ctx, repos.Transactions, tx.ID, "transaction was changed by a concurrent request")
		}
		o.logger.Error("refund sent but not recorded",
			"transaction_id", tx.ID,
			"refund_id", refund.ID,
			"error", err,
		)
		return nil, internalError("failed to record refund", err)
	}

	tx.Status = models.TransactionStatusRefunded
	tx.RefundID = &refund.ID

	o.logger.Info("payment refunded",
		"transaction_id", tx.ID,
		"refund_id", refund.ID,
		"amount", split.ClientPays,
	)

	o.notify(ctx, offer.ClientID, NotificationPaymentRefunded,
		"Payment refunded",
		fmt.Sprintf("%s %s was refunded. Reason: %s", split.ClientPays.StringFixed(2), tx.Currency, reason),
	)

	return tx, nil
}

func refundError(err error) *ServiceError {
	switch {
	case errors.Is(err, gateway.ErrInsufficientFunds):
		return &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "the platform balance is too low to cover this refund; top up the balance and retry",
			Err:     err,
		}
	case gateway.IsUnavailable(err):
		return gatewayUnavailable("refund", err)
	default:
		return &ServiceError{
			Code:    ErrCodeRefundFailed,
			Message: "the refund was declined by the payment gateway",
			Err:     err,
		}
	}
}
