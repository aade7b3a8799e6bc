// Package middleware provides HTTP middleware for the escrow API.
package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	apiPrefix            = "/api/v1/"
)

// IdempotencyRepository defines the interface for idempotency storage
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

type responseCapture struct {
	http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.statusCode = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a mutating request sent again
// with the same Idempotency-Key. Keys are scoped to the request path and
// the acting user, so two users cannot collide on a key.
func Idempotency(repo IdempotencyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresIdempotency(r) {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get(idempotencyKeyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			requestPath := normalizeRequestPath(r.URL.Path)
			scopedKey := scopeKey(ctx, idempotencyKey)

			cached, err := repo.Get(ctx, scopedKey, requestPath)
			if err != nil {
				logger.Error("failed to check idempotency cache", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				logger.Debug("returning cached idempotent response",
					"key", idempotencyKey,
					"path", requestPath,
					"status", cached.ResponseStatus,
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotent-Replayed", "true")
				w.WriteHeader(cached.ResponseStatus)
				//nolint:errcheck // Best effort response writing
				w.Write([]byte(cached.ResponseBody))
				return
			}

			capture := newResponseCapture(w)
			next.ServeHTTP(capture, r)

			if !shouldCacheResponse(capture.statusCode) {
				return
			}

			idemKey := &models.IdempotencyKey{
				Key:            scopedKey,
				RequestPath:    requestPath,
				ResponseStatus: capture.statusCode,
				ResponseBody:   capture.body.String(),
				CreatedAt:      time.Now(),
			}
			if err := repo.Store(ctx, idemKey); err != nil {
				logger.Error("failed to store idempotency key",
					"error", err,
					"key", idempotencyKey,
				)
			}
		})
	}
}

func requiresIdempotency(r *http.Request) bool {
	return r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, apiPrefix)
}

func scopeKey(ctx context.Context, key string) string {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor.ID.String() + ":" + key
	}
	return key
}

func normalizeRequestPath(urlPath string) string {
	return strings.TrimSuffix(urlPath, "/")
}

// Only successful outcomes are replayed; failed requests may be retried.
func shouldCacheResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
