// Package mocks provides testify mocks of the service ports and of the
// service interfaces consumed by the HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/benx421/payment-gateway/escrow/internal/fees"
	"github.com/benx421/payment-gateway/escrow/internal/gateway"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockPaymentGateway is a mock of service.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

// NewMockPaymentGateway creates a mock whose expectations are asserted on cleanup
func NewMockPaymentGateway(t testingT) *MockPaymentGateway {
	m := &MockPaymentGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	ret := m.Called(ctx, req)
	var order *gateway.Order
	if v := ret.Get(0); v != nil {
		order = v.(*gateway.Order)
	}
	return order, ret.Error(1)
}

func (m *MockPaymentGateway) GetOrderStatus(ctx context.Context, orderID string) (gateway.OrderStatus, error) {
	ret := m.Called(ctx, orderID)
	return ret.Get(0).(gateway.OrderStatus), ret.Error(1)
}

func (m *MockPaymentGateway) CaptureOrder(ctx context.Context, orderID, idempotencyKey string) (*gateway.Capture, error) {
	ret := m.Called(ctx, orderID, idempotencyKey)
	var capture *gateway.Capture
	if v := ret.Get(0); v != nil {
		capture = v.(*gateway.Capture)
	}
	return capture, ret.Error(1)
}

func (m *MockPaymentGateway) VoidOrder(ctx context.Context, orderID, idempotencyKey string) error {
	ret := m.Called(ctx, orderID, idempotencyKey)
	return ret.Error(0)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.Refund, error) {
	ret := m.Called(ctx, req)
	var refund *gateway.Refund
	if v := ret.Get(0); v != nil {
		refund = v.(*gateway.Refund)
	}
	return refund, ret.Error(1)
}

func (m *MockPaymentGateway) Payout(ctx context.Context, req gateway.PayoutRequest) (*gateway.Payout, error) {
	ret := m.Called(ctx, req)
	var payout *gateway.Payout
	if v := ret.Get(0); v != nil {
		payout = v.(*gateway.Payout)
	}
	return payout, ret.Error(1)
}

// MockNotifier is a mock of service.Notifier
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a mock whose expectations are asserted on cleanup
func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, title, content string) error {
	ret := m.Called(ctx, userID, kind, title, content)
	return ret.Error(0)
}

// MockFeeConfigProvider is a mock of service.FeeConfigProvider
type MockFeeConfigProvider struct {
	mock.Mock
}

// NewMockFeeConfigProvider creates a mock whose expectations are asserted on cleanup
func NewMockFeeConfigProvider(t testingT) *MockFeeConfigProvider {
	m := &MockFeeConfigProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFeeConfigProvider) Current(ctx context.Context) (fees.FeeConfig, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(fees.FeeConfig), ret.Error(1)
}

// MockHealthChecker is a mock of service.HealthChecker
type MockHealthChecker struct {
	mock.Mock
}

// NewMockHealthChecker creates a mock whose expectations are asserted on cleanup
func NewMockHealthChecker(t testingT) *MockHealthChecker {
	m := &MockHealthChecker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockHealthChecker) PingContext(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}
