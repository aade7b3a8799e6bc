package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benx421/payment-gateway/escrow/internal/api"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	repomocks "github.com/benx421/payment-gateway/escrow/internal/repository/mocks"
	"github.com/benx421/payment-gateway/escrow/internal/service/mocks"
)

func TestNewRouter(t *testing.T) {
	offers := mocks.NewMockOfferReviewer(t)
	idempotency := repomocks.NewMockIdempotencyRepository(t)
	handler := NewHandler(offers, mocks.NewMockPaymentProcessor(t), mocks.NewMockSettler(t),
		mocks.NewMockReconciler(t), mocks.NewMockHealthChecker(t), testLogger())

	router, err := NewRouter(handler, idempotency, testLogger())
	require.NoError(t, err)

	offer := testOffer()
	actor := providerActor(offer)
	path := "/api/v1/offers/" + offer.ID.String() + "/reject"

	send := func(body string, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Actor-ID", actor.ID.String())
		req.Header.Set("X-Actor-Role", string(actor.Role))
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("schema violations never reach the service", func(t *testing.T) {
		rec := send(`{"reason":""}`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.ErrorCodeInvalidRequest, decode[api.Error](t, rec).Error)
		offers.AssertNotCalled(t, "RejectOffer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("successful rejection is stored for replay", func(t *testing.T) {
		rejected := *offer
		rejected.Status = models.OfferStatusRejected
		scoped := actor.ID.String() + ":reject-1"

		offers.On("RejectOffer", mock.Anything, offer.ID, *actor, "fully booked").
			Return(&models.OfferOutcome{Offer: &rejected}, nil).Once()
		idempotency.On("Get", mock.Anything, scoped, path).Return(nil, nil).Once()
		idempotency.On("Store", mock.Anything, mock.MatchedBy(func(k *models.IdempotencyKey) bool {
			return k.Key == scoped && k.ResponseStatus == http.StatusOK
		})).Return(nil).Once()

		rec := send(`{"reason":"fully booked"}`, "reject-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "REJECTED", decode[api.OfferOutcome](t, rec).Offer.Status)
	})

	t.Run("docs are served without identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Escrow API")
	})
}
