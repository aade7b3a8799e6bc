// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

var (
	_ repository.OfferRepository         = (*MockOfferRepository)(nil)
	_ repository.TransactionRepository   = (*MockTransactionRepository)(nil)
	_ repository.PayoutAccountRepository = (*MockPayoutAccountRepository)(nil)
	_ repository.IdempotencyRepository   = (*MockIdempotencyRepository)(nil)
)

// MockOfferRepository is a mock of repository.OfferRepository
type MockOfferRepository struct {
	mock.Mock
}

// NewMockOfferRepository creates a mock whose expectations are asserted on cleanup
func NewMockOfferRepository(t testingT) *MockOfferRepository {
	m := &MockOfferRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	ret := m.Called(ctx, offer)
	return ret.Error(0)
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	ret := m.Called(ctx, id)
	var offer *models.Offer
	if v := ret.Get(0); v != nil {
		offer = v.(*models.Offer)
	}
	return offer, ret.Error(1)
}

func (m *MockOfferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OfferStatus, note string) error {
	ret := m.Called(ctx, id, from, to, note)
	return ret.Error(0)
}

// MockTransactionRepository is a mock of repository.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

// NewMockTransactionRepository creates a mock whose expectations are asserted on cleanup
func NewMockTransactionRepository(t testingT) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	ret := m.Called(ctx, tx)
	return ret.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	ret := m.Called(ctx, id)
	return transactionOrNil(ret.Get(0)), ret.Error(1)
}

func (m *MockTransactionRepository) FindActiveByOfferID(ctx context.Context, offerID uuid.UUID) (*models.Transaction, error) {
	ret := m.Called(ctx, offerID)
	return transactionOrNil(ret.Get(0)), ret.Error(1)
}

func (m *MockTransactionRepository) ListOverdueReviews(ctx context.Context, now time.Time, limit int) ([]*models.Transaction, error) {
	ret := m.Called(ctx, now, limit)
	var txs []*models.Transaction
	if v := ret.Get(0); v != nil {
		txs = v.([]*models.Transaction)
	}
	return txs, ret.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus) error {
	ret := m.Called(ctx, id, from, to)
	return ret.Error(0)
}

func (m *MockTransactionRepository) MarkPaymentInitiated(ctx context.Context, id uuid.UUID, orderID string, reviewDeadline time.Time) error {
	ret := m.Called(ctx, id, orderID, reviewDeadline)
	return ret.Error(0)
}

func (m *MockTransactionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, from models.TransactionStatus, captureID *string) error {
	ret := m.Called(ctx, id, from, captureID)
	return ret.Error(0)
}

func (m *MockTransactionRepository) ExtendReviewDeadline(ctx context.Context, id uuid.UUID, reviewDeadline time.Time) error {
	ret := m.Called(ctx, id, reviewDeadline)
	return ret.Error(0)
}

func (m *MockTransactionRepository) RecordCapture(ctx context.Context, id uuid.UUID, captureID string) error {
	ret := m.Called(ctx, id, captureID)
	return ret.Error(0)
}

func (m *MockTransactionRepository) MarkTransferred(ctx context.Context, id uuid.UUID, transferID string, transferredAt time.Time) error {
	ret := m.Called(ctx, id, transferID, transferredAt)
	return ret.Error(0)
}

func (m *MockTransactionRepository) MarkRefunded(ctx context.Context, id uuid.UUID, from models.TransactionStatus, refundID string) error {
	ret := m.Called(ctx, id, from, refundID)
	return ret.Error(0)
}

func transactionOrNil(v any) *models.Transaction {
	if v == nil {
		return nil
	}
	return v.(*models.Transaction)
}

// MockPayoutAccountRepository is a mock of repository.PayoutAccountRepository
type MockPayoutAccountRepository struct {
	mock.Mock
}

// NewMockPayoutAccountRepository creates a mock whose expectations are asserted on cleanup
func NewMockPayoutAccountRepository(t testingT) *MockPayoutAccountRepository {
	m := &MockPayoutAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPayoutAccountRepository) FindPayee(ctx context.Context, providerID uuid.UUID) (string, error) {
	ret := m.Called(ctx, providerID)
	return ret.String(0), ret.Error(1)
}

func (m *MockPayoutAccountRepository) Upsert(ctx context.Context, providerID uuid.UUID, payee string) error {
	ret := m.Called(ctx, providerID, payee)
	return ret.Error(0)
}

// MockIdempotencyRepository is a mock of repository.IdempotencyRepository
type MockIdempotencyRepository struct {
	mock.Mock
}

// NewMockIdempotencyRepository creates a mock whose expectations are asserted on cleanup
func NewMockIdempotencyRepository(t testingT) *MockIdempotencyRepository {
	m := &MockIdempotencyRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockIdempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	ret := m.Called(ctx, key, requestPath)
	var idemKey *models.IdempotencyKey
	if v := ret.Get(0); v != nil {
		idemKey = v.(*models.IdempotencyKey)
	}
	return idemKey, ret.Error(1)
}

func (m *MockIdempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	ret := m.Called(ctx, idemKey)
	return ret.Error(0)
}

func (m *MockIdempotencyRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ret := m.Called(ctx, cutoff)
	return ret.Get(0).(int64), ret.Error(1)
}
