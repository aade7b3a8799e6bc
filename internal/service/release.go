package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// ReleaseFunds pays the provider their share of a completed transaction.
// The payout is recorded at most once: the transfer id is only written to a
// completed transaction that has none, and the gateway call carries the
// same idempotency key on every attempt. The status stays COMPLETED.
func (o *Orchestrator) ReleaseFunds(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only an administrator can release funds")
	}

	repos := o.store.Repositories()

	tx, offer, err := o.loadTransactionWithOffer(ctx, repos, transactionID)
	if err != nil {
		return nil, err
	}

	if tx.Status != models.TransactionStatusCompleted {
		return nil, invalidTransactionState(tx, fmt.Sprintf("funds can only be released for completed transactions, transaction is %s", tx.Status))
	}
	if tx.IsPaidOut() {
		return nil, stateConflict("funds were already released for this transaction", string(tx.Status))
	}

	split, err := o.split(tx)
	if err != nil {
		return nil, err
	}

	payee, err := repos.PayoutAccounts.FindPayee(ctx, offer.ProviderID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodePayeeNotConfigured,
			Message: "the provider has not configured a payout account",
		}
	}
	if err != nil {
		return nil, internalError("failed to load payout account", err)
	}

	payout, err := o.gateway.Payout(ctx, gateway.PayoutRequest{
		Payee:          payee,
		Amount:         split.ProviderReceives,
		Currency:       tx.Currency,
		IdempotencyKey: idempotencyKey(tx.ID, opPayout),
	})
	if err != nil {
		o.logger.Warn("payout failed", "transaction_id", tx.ID, "error", err)
		return nil, payoutError(err)
	}

	transferredAt := o.now()
	if err := repos.Transactions.MarkTransferred(ctx, tx.ID, payout.ID, transferredAt); err != nil {
		if errors.Is(err, models.ErrStatusConflict) {
			return nil, o.transactionConflict(ctx, repos.Transactions, tx.ID, "funds were already released for this transaction")
		}
		o.logger.Error("payout sent but not recorded",
			"transaction_id", tx.ID,
			"payout_id", payout.ID,
			"error", err,
		)
		return nil, internalError("failed to record payout", err)
	}

	tx.TransferID = &payout.ID
	tx.TransferStatus = models.TransferStatusCompleted
	tx.TransferDate = &transferredAt

	o.logger.Info("funds released",
		"transaction_id", tx.ID,
		"payout_id", payout.ID,
		"provider_receives", split.ProviderReceives,
		"platform_commission", split.PlatformCommission,
	)

	o.notify(ctx, offer.ProviderID, NotificationFundsReleased,
		"Payment sent",
		fmt.Sprintf("%s %s was sent to your payout account.", split.ProviderReceives.StringFixed(2), tx.Currency),
	)

	return tx, nil
}

func payoutError(err error) *ServiceError {
	switch {
	case errors.Is(err, gateway.ErrPayeeNotConfigured):
		return &ServiceError{
			Code:    ErrCodePayeeNotConfigured,
			Message: "the gateway does not accept the provider's payout account",
			Err:     err,
		}
	case gateway.IsUnavailable(err):
		return gatewayUnavailable("payout", err)
	default:
		return &ServiceError{
			Code:    ErrCodePayoutFailed,
			Message: "the payout was declined by the payment gateway",
			Err:     err,
		}
	}
}
