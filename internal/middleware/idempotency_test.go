package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository/mocks"
)

const approvePath = "/api/v1/offers/2b0f6f0c-8a52-4a43-9d0e-1c3a4f5e6d70/approve"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func respondWith(status int, body string, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls != nil {
			*calls++
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body)) //nolint:errcheck // test helper
	})
}

func postWithKey(path, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotency_Bypassed(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
	}{
		{"GET request", httptest.NewRequest(http.MethodGet, "/api/v1/transactions/overdue", nil)},
		{"outside the API", postWithKey("/docs", "key-1")},
		{"no key", postWithKey(approvePath, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			calls := 0
			rec := httptest.NewRecorder()

			Idempotency(repo, testLogger())(respondWith(http.StatusOK, `{}`, &calls)).ServeHTTP(rec, tt.req)

			assert.Equal(t, 1, calls)
			repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		})
	}
}

func TestIdempotency_SuccessIsStoredUnderActorScope(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleProvider}
	scoped := actor.ID.String() + ":approve-1"

	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, scoped, approvePath).Return(nil, nil)
	repo.On("Store", mock.Anything, mock.MatchedBy(func(k *models.IdempotencyKey) bool {
		return k.Key == scoped &&
			k.RequestPath == approvePath &&
			k.ResponseStatus == http.StatusOK &&
			k.ResponseBody == `{"offer":{"status":"APPROVED"}}`
	})).Return(nil)

	req := postWithKey(approvePath+"/", "approve-1")
	req = req.WithContext(WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()

	Idempotency(repo, testLogger())(respondWith(http.StatusOK, `{"offer":{"status":"APPROVED"}}`, nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Idempotent-Replayed"))
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "release-1", approvePath).Return(&models.IdempotencyKey{
		Key:            "release-1",
		RequestPath:    approvePath,
		ResponseStatus: http.StatusOK,
		ResponseBody:   `{"transfer_id":"payout-1"}`,
	}, nil)

	calls := 0
	rec := httptest.NewRecorder()

	Idempotency(repo, testLogger())(respondWith(http.StatusOK, `{"transfer_id":"payout-2"}`, &calls)).
		ServeHTTP(rec, postWithKey(approvePath, "release-1"))

	assert.Zero(t, calls, "handler must not run for a replayed key")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Idempotent-Replayed"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"transfer_id":"payout-1"}`, rec.Body.String())
}

func TestIdempotency_FailuresAreNotStored(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			repo.On("Get", mock.Anything, "key-1", approvePath).Return(nil, nil)
			rec := httptest.NewRecorder()

			Idempotency(repo, testLogger())(respondWith(status, `{"error":"x"}`, nil)).
				ServeHTTP(rec, postWithKey(approvePath, "key-1"))

			assert.Equal(t, status, rec.Code)
			repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		})
	}
}

func TestIdempotency_RepositoryErrorsFailOpen(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Get", mock.Anything, "key-1", approvePath).Return(nil, errors.New("connection refused"))
		calls := 0
		rec := httptest.NewRecorder()

		Idempotency(repo, testLogger())(respondWith(http.StatusOK, `{}`, &calls)).
			ServeHTTP(rec, postWithKey(approvePath, "key-1"))

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Get", mock.Anything, "key-1", approvePath).Return(nil, nil)
		repo.On("Store", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		rec := httptest.NewRecorder()

		Idempotency(repo, testLogger())(respondWith(http.StatusOK, `{"ok":true}`, nil)).
			ServeHTTP(rec, postWithKey(approvePath, "key-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"ok":true}`, rec.Body.String())
	})
}
