package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/benx421/payment-gateway/escrow/internal/config"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
	repomocks "github.com/benx421/payment-gateway/escrow/internal/repository/mocks"
	"github.com/benx421/payment-gateway/escrow/internal/service/mocks"
)

// fakeStore runs units of work directly against the mock repositories.
type fakeStore struct {
	repos   repository.Repositories
	txCalls int
}

func (s *fakeStore) Repositories() repository.Repositories {
	return s.repos
}

func (s *fakeStore) WithinTx(_ context.Context, fn func(repository.Repositories) error) error {
	s.txCalls++
	return fn(s.repos)
}

type fixture struct {
	offers   *repomocks.MockOfferRepository
	txs      *repomocks.MockTransactionRepository
	payouts  *repomocks.MockPayoutAccountRepository
	gateway  *mocks.MockPaymentGateway
	notifier *mocks.MockNotifier
	fees     *mocks.MockFeeConfigProvider
	store    *fakeStore
	svc      *Orchestrator
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		offers:   repomocks.NewMockOfferRepository(t),
		txs:      repomocks.NewMockTransactionRepository(t),
		payouts:  repomocks.NewMockPayoutAccountRepository(t),
		gateway:  mocks.NewMockPaymentGateway(t),
		notifier: mocks.NewMockNotifier(t),
		fees:     mocks.NewMockFeeConfigProvider(t),
		now:      time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	}
	f.store = &fakeStore{repos: repository.Repositories{
		Offers:         f.offers,
		Transactions:   f.txs,
		PayoutAccounts: f.payouts,
	}}

	f.svc = NewOrchestrator(f.store, f.gateway, f.notifier, f.fees, config.AppConfig{
		Currency:     "USD",
		ReviewWindow: 24 * time.Hour,
	}, testLogger())
	f.svc.now = func() time.Time { return f.now }

	return f
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPendingOffer() *models.Offer {
	return &models.Offer{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		ProviderID:  uuid.New(),
		ServiceID:   uuid.New(),
		Price:       decimal.RequireFromString("100.00"),
		Status:      models.OfferStatusPending,
		Description: "Wedding photography, 6 hours",
	}
}

func newTransaction(offer *models.Offer, status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{
		ID:                 uuid.New(),
		OfferID:            offer.ID,
		Amount:             offer.Price,
		Currency:           "USD",
		Status:             status,
		Method:             models.PaymentMethodGatewayOrder,
		ClientFeePercent:   decimal.Zero,
		ProviderFeePercent: decimal.NewFromInt(10),
		TransferStatus:     models.TransferStatusNone,
	}
}

// withOrder attaches a gateway order to tx.
func withOrder(tx *models.Transaction, orderID string) *models.Transaction {
	tx.PaymentIntentID = &orderID
	return tx
}

// withCapture marks tx as captured.
func withCapture(tx *models.Transaction, captureID string) *models.Transaction {
	tx.CaptureID = &captureID
	return tx
}

func clientOf(offer *models.Offer) models.Actor {
	return models.Actor{ID: offer.ClientID, Role: models.RoleClient}
}

func providerOf(offer *models.Offer) models.Actor {
	return models.Actor{ID: offer.ProviderID, Role: models.RoleProvider}
}

func admin() models.Actor {
	return models.Actor{ID: uuid.New(), Role: models.RoleAdmin}
}

func strPtr(s string) *string {
	return &s
}

func asServiceError(t *testing.T, err error) *ServiceError {
	t.Helper()
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	return svcErr
}
