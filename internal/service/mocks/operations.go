package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// MockOfferReviewer is a mock of service.OfferReviewer
type MockOfferReviewer struct {
	mock.Mock
}

// NewMockOfferReviewer creates a mock whose expectations are asserted on cleanup
func NewMockOfferReviewer(t testingT) *MockOfferReviewer {
	m := &MockOfferReviewer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOfferReviewer) ApproveOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor) (*models.OfferOutcome, error) {
	ret := m.Called(ctx, offerID, actor)
	return outcomeOrNil(ret.Get(0)), ret.Error(1)
}

func (m *MockOfferReviewer) RejectOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor, reason string) (*models.OfferOutcome, error) {
	ret := m.Called(ctx, offerID, actor, reason)
	return outcomeOrNil(ret.Get(0)), ret.Error(1)
}

func (m *MockOfferReviewer) GetOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor) (*models.Offer, error) {
	ret := m.Called(ctx, offerID, actor)
	var offer *models.Offer
	if v := ret.Get(0); v != nil {
		offer = v.(*models.Offer)
	}
	return offer, ret.Error(1)
}

// MockPaymentProcessor is a mock of service.PaymentProcessor
type MockPaymentProcessor struct {
	mock.Mock
}

// NewMockPaymentProcessor creates a mock whose expectations are asserted on cleanup
func NewMockPaymentProcessor(t testingT) *MockPaymentProcessor {
	m := &MockPaymentProcessor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPaymentProcessor) OpenTransaction(ctx context.Context, offerID uuid.UUID, actor models.Actor, method models.PaymentMethodKind, captureID *string) (*models.Transaction, error) {
	ret := m.Called(ctx, offerID, actor, method, captureID)
	return transactionOrNil(ret.Get(0)), ret.Error(1)
}

func (m *MockPaymentProcessor) InitiatePayment(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.PaymentInitiation, error) {
	ret := m.Called(ctx, transactionID, actor)
	var initiation *models.PaymentInitiation
	if v := ret.Get(0); v != nil {
		initiation = v.(*models.PaymentInitiation)
	}
	return initiation, ret.Error(1)
}

func (m *MockPaymentProcessor) CancelTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error) {
	ret := m.Called(ctx, transactionID, actor)
	return transactionOrNil(ret.Get(0)), ret.Error(1)
}

func (m *MockPaymentProcessor) GetTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error) {
	ret := m.Called(ctx, transactionID, actor)
	return transactionOrNil(ret.Get(0)), ret.Error(1)
}

// MockSettler is a mock of service.Settler
type MockSettler struct {
	mock.Mock
}

// NewMockSettler creates a mock whose expectations are asserted on cleanup
func NewMockSettler(t testingT) *MockSettler {
	m := &MockSettler{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSettler) ReleaseFunds(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.Transaction, error) {
	ret := m.Called(ctx, transactionID, actor)
	return transactionOrNil(ret.Get(0)), ret.Error(1)
}

func (m *MockSettler) RefundTransaction(ctx context.Context, transactionID uuid.UUID, actor models.Actor, reason string) (*models.Transaction, error) {
	ret := m.Called(ctx, transactionID, actor, reason)
	return transactionOrNil(ret.Get(0)), ret.Error(1)
}

// MockReconciler is a mock of service.Reconciler
type MockReconciler struct {
	mock.Mock
}

// NewMockReconciler creates a mock whose expectations are asserted on cleanup
func NewMockReconciler(t testingT) *MockReconciler {
	m := &MockReconciler{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockReconciler) SyncPayment(ctx context.Context, transactionID uuid.UUID, actor models.Actor) (*models.PaymentSync, error) {
	ret := m.Called(ctx, transactionID, actor)
	var result *models.PaymentSync
	if v := ret.Get(0); v != nil {
		result = v.(*models.PaymentSync)
	}
	return result, ret.Error(1)
}

func (m *MockReconciler) ListOverdueReviews(ctx context.Context, actor models.Actor, limit int) ([]*models.Transaction, error) {
	ret := m.Called(ctx, actor, limit)
	var txs []*models.Transaction
	if v := ret.Get(0); v != nil {
		txs = v.([]*models.Transaction)
	}
	return txs, ret.Error(1)
}

func outcomeOrNil(v any) *models.OfferOutcome {
	if v == nil {
		return nil
	}
	return v.(*models.OfferOutcome)
}

func transactionOrNil(v any) *models.Transaction {
	if v == nil {
		return nil
	}
	return v.(*models.Transaction)
}
