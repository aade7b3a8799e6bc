package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/models"
)

func completedTransaction(offer *models.Offer) *models.Transaction {
	offer.Status = models.OfferStatusApproved
	return withCapture(withOrder(newTransaction(offer, models.TransactionStatusCompleted), "order-1"), "cap-1")
}

func TestOrchestrator_ReleaseFunds(t *testing.T) {
	t.Run("pays the provider their share once", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.payouts.On("FindPayee", ctx, offer.ProviderID).Return("provider@example.com", nil)
		f.gateway.On("Payout", ctx, mock.MatchedBy(func(req gateway.PayoutRequest) bool {
			return req.Amount.Equal(decimal.RequireFromString("90")) &&
				req.Payee == "provider@example.com" &&
				req.Currency == "USD" &&
				req.IdempotencyKey == tx.ID.String()+":payout"
		})).Return(&gateway.Payout{ID: "payout-1"}, nil)
		f.txs.On("MarkTransferred", ctx, tx.ID, "payout-1", f.now).Return(nil)
		f.notifier.On("Notify", ctx, offer.ProviderID, NotificationFundsReleased, mock.Anything,
			mock.MatchedBy(func(content string) bool { return strings.Contains(content, "90.00 USD") }),
		).Return(nil)

		got, err := f.svc.ReleaseFunds(ctx, tx.ID, admin())

		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, got.Status)
		assert.Equal(t, models.TransferStatusCompleted, got.TransferStatus)
		assert.Equal(t, "payout-1", *got.TransferID)
		assert.Equal(t, f.now, *got.TransferDate)
	})

	t.Run("second release makes no gateway call", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)
		tx.TransferID = strPtr("payout-1")

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)

		_, err := f.svc.ReleaseFunds(ctx, tx.ID, admin())

		svcErr := asServiceError(t, err)
		assert.Equal(t, ErrCodeStateConflict, svcErr.Code)
		assert.Equal(t, "COMPLETED", svcErr.CurrentStatus)
		f.gateway.AssertNotCalled(t, "Payout", mock.Anything, mock.Anything)
	})

	t.Run("concurrent release loses the compare-and-set", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)
		paid := *tx
		paid.TransferID = strPtr("payout-1")

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil).Once()
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.payouts.On("FindPayee", ctx, offer.ProviderID).Return("provider@example.com", nil)
		f.gateway.On("Payout", ctx, mock.Anything).Return(&gateway.Payout{ID: "payout-1"}, nil)
		f.txs.On("MarkTransferred", ctx, tx.ID, "payout-1", f.now).Return(models.ErrStatusConflict)
		f.txs.On("FindByID", ctx, tx.ID).Return(&paid, nil).Once()

		_, err := f.svc.ReleaseFunds(ctx, tx.ID, admin())

		assert.Equal(t, ErrCodeStateConflict, asServiceError(t, err).Code)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only administrators release funds", func(t *testing.T) {
		f := newFixture(t)
		offer := newPendingOffer()
		tx := completedTransaction(offer)

		for _, actor := range []models.Actor{clientOf(offer), providerOf(offer)} {
			_, err := f.svc.ReleaseFunds(context.Background(), tx.ID, actor)
			assert.Equal(t, ErrCodeForbidden, asServiceError(t, err).Code)
		}
	})

	t.Run("transaction must be completed", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := withOrder(newTransaction(offer, models.TransactionStatusProviderReview), "order-1")

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)

		_, err := f.svc.ReleaseFunds(ctx, tx.ID, admin())

		assert.Equal(t, ErrCodeInvalidTransactionState, asServiceError(t, err).Code)
	})

	t.Run("provider without payout account", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.payouts.On("FindPayee", ctx, offer.ProviderID).Return("", models.ErrNotFound)

		_, err := f.svc.ReleaseFunds(ctx, tx.ID, admin())

		assert.Equal(t, ErrCodePayeeNotConfigured, asServiceError(t, err).Code)
		f.gateway.AssertNotCalled(t, "Payout", mock.Anything, mock.Anything)
	})

	t.Run("gateway failures", func(t *testing.T) {
		tests := []struct {
			name     string
			kind     error
			wantCode string
		}{
			{"declined", gateway.ErrRejected, ErrCodePayoutFailed},
			{"payee rejected by gateway", gateway.ErrPayeeNotConfigured, ErrCodePayeeNotConfigured},
			{"unavailable", gateway.ErrUnavailable, ErrCodeGatewayUnavailable},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				ctx := context.Background()
				offer := newPendingOffer()
				tx := completedTransaction(offer)

				f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
				f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
				f.payouts.On("FindPayee", ctx, offer.ProviderID).Return("provider@example.com", nil)
				f.gateway.On("Payout", ctx, mock.Anything).Return(nil, &gateway.Error{Kind: tt.kind, Op: "payout"})

				_, err := f.svc.ReleaseFunds(ctx, tx.ID, admin())

				assert.Equal(t, tt.wantCode, asServiceError(t, err).Code)
				assert.Nil(t, tx.TransferID)
			})
		}
	})
}

func TestOrchestrator_RefundTransaction(t *testing.T) {
	t.Run("refunds what the client paid", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)
		tx.ClientFeePercent = decimal.NewFromInt(5)

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.gateway.On("Refund", ctx, mock.MatchedBy(func(req gateway.RefundRequest) bool {
			return req.CaptureID == "cap-1" &&
				req.Amount.Equal(decimal.RequireFromString("105")) &&
				req.Reason == "service not delivered" &&
				req.IdempotencyKey == tx.ID.String()+":refund"
		})).Return(&gateway.Refund{ID: "refund-1"}, nil)
		f.txs.On("MarkRefunded", ctx, tx.ID, models.TransactionStatusCompleted, "refund-1").Return(nil)
		f.notifier.On("Notify", ctx, offer.ClientID, NotificationPaymentRefunded, mock.Anything, mock.Anything).Return(nil)

		got, err := f.svc.RefundTransaction(ctx, tx.ID, admin(), "service not delivered")

		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusRefunded, got.Status)
		assert.Equal(t, "refund-1", *got.RefundID)
	})

	t.Run("provider may refund a declined capture", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		offer.Status = models.OfferStatusRejected
		tx := withCapture(newTransaction(offer, models.TransactionStatusDeclined), "cap-2")

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.gateway.On("Refund", ctx, mock.Anything).Return(&gateway.Refund{ID: "refund-2"}, nil)
		f.txs.On("MarkRefunded", ctx, tx.ID, models.TransactionStatusDeclined, "refund-2").Return(nil)
		f.notifier.On("Notify", ctx, offer.ClientID, NotificationPaymentRefunded, mock.Anything, mock.Anything).Return(nil)

		got, err := f.svc.RefundTransaction(ctx, tx.ID, providerOf(offer), "cannot attend")

		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusRefunded, got.Status)
	})

	t.Run("cancelled transaction keeps its captured money refundable", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		offer.Status = models.OfferStatusCancelled
		tx := withCapture(newTransaction(offer, models.TransactionStatusCancelled), "cap-3")
		tx.Method = models.PaymentMethodPreCaptured

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.gateway.On("Refund", ctx, mock.MatchedBy(func(req gateway.RefundRequest) bool {
			return req.CaptureID == "cap-3"
		})).Return(&gateway.Refund{ID: "refund-3"}, nil)
		f.txs.On("MarkRefunded", ctx, tx.ID, models.TransactionStatusCancelled, "refund-3").Return(nil)
		f.notifier.On("Notify", ctx, offer.ClientID, NotificationPaymentRefunded, mock.Anything, mock.Anything).Return(nil)

		got, err := f.svc.RefundTransaction(ctx, tx.ID, admin(), "client cancelled")

		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusRefunded, got.Status)
	})

	t.Run("paid out transaction cannot be refunded", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)
		tx.TransferID = strPtr("payout-1")
		tx.TransferStatus = models.TransferStatusCompleted

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)

		_, err := f.svc.RefundTransaction(ctx, tx.ID, admin(), "late complaint")

		svcErr := asServiceError(t, err)
		assert.Equal(t, ErrCodeStateConflict, svcErr.Code)
		assert.Equal(t, "COMPLETED", svcErr.CurrentStatus)
		f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	})

	t.Run("uncaptured payment has nothing to refund", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := withOrder(newTransaction(offer, models.TransactionStatusProviderReview), "order-1")

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)

		_, err := f.svc.RefundTransaction(ctx, tx.ID, admin(), "duplicate charge")

		svcErr := asServiceError(t, err)
		assert.Equal(t, ErrCodeStateConflict, svcErr.Code)
		assert.Equal(t, "PROVIDER_REVIEW", svcErr.CurrentStatus)
		f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	})

	t.Run("insufficient platform balance is reported as such", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.gateway.On("Refund", ctx, mock.Anything).
			Return(nil, &gateway.Error{Kind: gateway.ErrInsufficientFunds, Op: "refund", Code: gateway.CodeInsufficientFunds, StatusCode: 422})

		_, err := f.svc.RefundTransaction(ctx, tx.ID, admin(), "duplicate charge")

		svcErr := asServiceError(t, err)
		assert.Equal(t, ErrCodeInsufficientFunds, svcErr.Code)
		assert.Contains(t, svcErr.Message, "platform balance")
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	})

	t.Run("declined refund leaves state untouched", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)
		f.gateway.On("Refund", ctx, mock.Anything).Return(nil, &gateway.Error{Kind: gateway.ErrRejected, Op: "refund"})

		_, err := f.svc.RefundTransaction(ctx, tx.ID, admin(), "duplicate charge")

		assert.Equal(t, ErrCodeRefundFailed, asServiceError(t, err).Code)
		f.txs.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("client cannot refund themselves", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)

		_, err := f.svc.RefundTransaction(ctx, tx.ID, clientOf(offer), "changed my mind")

		assert.Equal(t, ErrCodeForbidden, asServiceError(t, err).Code)
	})

	t.Run("already refunded", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		offer := newPendingOffer()
		tx := completedTransaction(offer)
		tx.Status = models.TransactionStatusRefunded

		f.txs.On("FindByID", ctx, tx.ID).Return(tx, nil)
		f.offers.On("FindByID", ctx, offer.ID).Return(offer, nil)

		_, err := f.svc.RefundTransaction(ctx, tx.ID, admin(), "again")

		assert.Equal(t, ErrCodeInvalidTransactionState, asServiceError(t, err).Code)
	})

	t.Run("reason is required", func(t *testing.T) {
		f := newFixture(t)
		offer := newPendingOffer()
		tx := completedTransaction(offer)

		_, err := f.svc.RefundTransaction(context.Background(), tx.ID, admin(), "")

		assert.Equal(t, ErrCodeInvalidRequest, asServiceError(t, err).Code)
	})
}
