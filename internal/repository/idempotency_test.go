package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

func TestIdempotencyRepository(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	approvePath := "/api/v1/offers/7d1e0c3a-9f3e-4c55-8a7b-2f0e1d9c6b11/approve"
	refundPath := "/api/v1/transactions/0b4f3a9e-51d2-4e0f-9c8b-6a7d2e1f3c44/refund"

	t.Run("missing key returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "never-used", approvePath)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("first stored response wins", func(t *testing.T) {
		first := &models.IdempotencyKey{Key: "approve-1", RequestPath: approvePath, ResponseStatus: 200, ResponseBody: `{"status":"APPROVED"}`}
		second := &models.IdempotencyKey{Key: "approve-1", RequestPath: approvePath, ResponseStatus: 409, ResponseBody: `{"error":"invalid_offer_state"}`}

		require.NoError(t, repo.Store(ctx, first))
		require.NoError(t, repo.Store(ctx, second))

		got, err := repo.Get(ctx, "approve-1", approvePath)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 200, got.ResponseStatus)
		assert.Equal(t, `{"status":"APPROVED"}`, got.ResponseBody)
	})

	t.Run("same key on another path is independent", func(t *testing.T) {
		require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{
			Key: "approve-1", RequestPath: refundPath, ResponseStatus: 200, ResponseBody: `{"status":"REFUNDED"}`,
		}))

		got, err := repo.Get(ctx, "approve-1", refundPath)
		require.NoError(t, err)
		assert.Equal(t, `{"status":"REFUNDED"}`, got.ResponseBody)
	})
}

func TestIdempotencyRepository_DeleteOlderThan(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{
		Key: "stale", RequestPath: "/api/v1/test", ResponseStatus: 200, ResponseBody: "{}", CreatedAt: now.Add(-25 * time.Hour),
	}))
	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{
		Key: "fresh", RequestPath: "/api/v1/test", ResponseStatus: 200, ResponseBody: "{}", CreatedAt: now.Add(-time.Hour),
	}))

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	stale, err := repo.Get(ctx, "stale", "/api/v1/test")
	require.NoError(t, err)
	assert.Nil(t, stale)

	fresh, err := repo.Get(ctx, "fresh", "/api/v1/test")
	require.NoError(t, err)
	assert.NotNil(t, fresh)
}
