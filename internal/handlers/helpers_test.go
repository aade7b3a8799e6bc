package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/benx421/payment-gateway/escrow/internal/api"
	"github.com/benx421/payment-gateway/escrow/internal/middleware"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/service/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	offers     *mocks.MockOfferReviewer
	payments   *mocks.MockPaymentProcessor
	settlement *mocks.MockSettler
	reconciler *mocks.MockReconciler
	health     *mocks.MockHealthChecker
	server     http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		offers:     mocks.NewMockOfferReviewer(t),
		payments:   mocks.NewMockPaymentProcessor(t),
		settlement: mocks.NewMockSettler(t),
		reconciler: mocks.NewMockReconciler(t),
		health:     mocks.NewMockHealthChecker(t),
	}

	handler := NewHandler(h.offers, h.payments, h.settlement, h.reconciler, h.health, testLogger())
	mux := http.NewServeMux()
	api.HandlerWithOptions(handler, mux, api.ServerOptions{ErrorHandlerFunc: WriteValidationError})
	h.server = middleware.Actor()(mux)

	return h
}

func (h *harness) do(t *testing.T, method, path string, actor *models.Actor, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set(middleware.ActorIDHeader, actor.ID.String())
		req.Header.Set(middleware.ActorRoleHeader, string(actor.Role))
	}

	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func testOffer() *models.Offer {
	return &models.Offer{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		ProviderID:  uuid.New(),
		ServiceID:   uuid.New(),
		Price:       decimal.RequireFromString("100"),
		Status:      models.OfferStatusPending,
		Description: "Portrait session",
		CreatedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testTransaction(offer *models.Offer, status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{
		ID:                 uuid.New(),
		OfferID:            offer.ID,
		Amount:             offer.Price,
		Currency:           "USD",
		Status:             status,
		Method:             models.PaymentMethodGatewayOrder,
		ClientFeePercent:   decimal.NewFromInt(5),
		ProviderFeePercent: decimal.NewFromInt(10),
		TransferStatus:     models.TransferStatusNone,
	}
}

func providerActor(offer *models.Offer) *models.Actor {
	return &models.Actor{ID: offer.ProviderID, Role: models.RoleProvider}
}

func clientActor(offer *models.Offer) *models.Actor {
	return &models.Actor{ID: offer.ClientID, Role: models.RoleClient}
}

func adminActor() *models.Actor {
	return &models.Actor{ID: uuid.New(), Role: models.RoleAdmin}
}
