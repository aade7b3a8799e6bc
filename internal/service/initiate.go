package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// OpenTransaction creates the transaction through which the client pays for
// a pending offer. Fee percentages in force now are snapshotted on it.
// A pre-captured payment goes straight to provider review.
func (o *Orchestrator) OpenTransaction(
	ctx context.Context,
	offerID uuid.UUID,
	actor models.Actor,
	method models.PaymentMethodKind,
	captureID *string,
) (*models.Transaction, error) {
	if !method.Valid() {
		return nil, invalidRequest(fmt.Sprintf("unknown payment method %q", method))
	}
	if method == models.PaymentMethodGatewayOrder && captureID != nil {
		return nil, invalidRequest("capture id only applies to pre-captured payments")
	}
	if err := validateCaptureID(captureID); err != nil {
		return nil, invalidRequest(err.Error())
	}

	repos := o.store.Repositories()

	offer, err := o.loadOffer(ctx, repos.Offers, offerID)
	if err != nil {
		return nil, err
	}

	if actor.Role != models.RoleClient || actor.ID != offer.ClientID {
		return nil, forbidden("only the client of this offer can pay for it")
	}

	if offer.Status != models.OfferStatusPending {
		return nil, invalidOfferState(offer)
	}

	existing, err := o.findActiveTransaction(ctx, repos.Transactions, offer.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, activeTransactionExists(existing)
	}

	feeConfig, err := o.fees.Current(ctx)
	if err != nil {
		return nil, internalError("failed to load fee configuration", err)
	}

	tx := &models.Transaction{
		ID:                 uuid.New(),
		OfferID:            offer.ID,
		Amount:             offer.Price,
		Currency:           o.currency,
		Status:             models.TransactionStatusPending,
		Method:             method,
		ClientFeePercent:   feeConfig.ClientFeePercent,
		ProviderFeePercent: feeConfig.ProviderFeePercent,
		TransferStatus:     models.TransferStatusNone,
	}

	if method == models.PaymentMethodPreCaptured {
		deadline := o.now().Add(o.reviewWindow)
		tx.Status = models.TransactionStatusProviderReview
		tx.ReviewDeadline = &deadline
		tx.CaptureID = captureID
	}

	if _, err := o.split(tx); err != nil {
		return nil, invalidRequest("offer price cannot be charged: " + err.Error())
	}

	if err := repos.Transactions.Create(ctx, tx); err != nil {
		if errors.Is(err, models.ErrDuplicateTransaction) {
			return nil, &ServiceError{
				Code:    ErrCodeActiveTransactionExists,
				Message: "offer already has an active transaction",
			}
		}
		return nil, internalError("failed to create transaction", err)
	}

	o.logger.Info("transaction opened",
		"transaction_id", tx.ID,
		"offer_id", offer.ID,
		"payment_method", method,
	)

	return tx, nil
}

func activeTransactionExists(tx *models.Transaction) *ServiceError {
	return &ServiceError{
		Code:          ErrCodeActiveTransactionExists,
		Message:       fmt.Sprintf("offer already has active transaction %s", tx.ID),
		CurrentStatus: string(tx.Status),
	}
}

// InitiatePayment creates the gateway order the client approves and opens
// the provider review window. If the gateway does not confirm the order the
// transaction stays PENDING and the call can be retried.
func (o *Orchestrator) InitiatePayment(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.PaymentInitiation, error) {
	repos := o.store.Repositories()

	tx, offer, err := o.loadTransactionWithOffer(ctx, repos, transactionID)
	if err != nil {
		return nil, err
	}

	if actor.ID != offer.ClientID {
		return nil, forbidden("only the client of this offer can pay for it")
	}

	if tx.Status != models.TransactionStatusPending {
		return nil, invalidTransactionState(tx, fmt.Sprintf("payment can only be initiated for pending transactions, transaction is %s", tx.Status))
	}
	if tx.Method != models.PaymentMethodGatewayOrder {
		return nil, invalidTransactionState(tx, "pre-captured payments need no gateway order")
	}

	split, err := o.split(tx)
	if err != nil {
		return nil, err
	}

	order, err := o.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   split.ClientPays,
		Currency: tx.Currency,
		Metadata: map[string]string{
			"transaction_id": tx.ID.String(),
			"offer_id":       offer.ID.String(),
			"service_id":     offer.ServiceID.String(),
		},
		IdempotencyKey: idempotencyKey(tx.ID, opCreateOrder),
	})
	if err != nil {
		o.logger.Warn("order creation failed", "transaction_id", tx.ID, "error", err)
		return nil, gatewayUnavailable("order creation", err)
	}

	deadline := o.now().Add(o.reviewWindow)
	if err := repos.Transactions.MarkPaymentInitiated(ctx, tx.ID, order.ID, deadline); err != nil {
		if errors.Is(err, models.ErrStatusConflict) || errors.Is(err, models.ErrDuplicateTransaction) {
			return nil, o.transactionConflict(ctx, repos.Transactions, tx.ID, "transaction was changed by a concurrent request")
		}
		return nil, internalError("failed to record payment order", err)
	}

	tx.Status = models.TransactionStatusProviderReview
	tx.PaymentIntentID = &order.ID
	tx.ReviewDeadline = &deadline

	o.logger.Info("payment initiated",
		"transaction_id", tx.ID,
		"order_id", order.ID,
		"client_pays", split.ClientPays,
	)

	return &models.PaymentInitiation{Transaction: tx, ApproveURL: order.ApproveURL}, nil
}
