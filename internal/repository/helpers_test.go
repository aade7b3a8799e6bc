package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/payment-gateway/escrow/internal/config"
	"github.com/benx421/payment-gateway/escrow/internal/db"
	"github.com/benx421/payment-gateway/escrow/internal/models"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		t.Skipf("test database unavailable: %v", err)
	}

	database := db.NewTestDB(sqlDB)
	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return database
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		log.Printf("failed to close test database: %v", err)
	}
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	tables := []string{"transactions", "offers", "provider_payout_accounts", "platform_settings", "idempotency_keys"}
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}

func createTestOffer(t *testing.T, repo OfferRepository, price string) *models.Offer {
	t.Helper()

	offer := &models.Offer{
		ClientID:    uuid.New(),
		ProviderID:  uuid.New(),
		ServiceID:   uuid.New(),
		Price:       decimal.RequireFromString(price),
		Description: "DJ set, 4 hours",
	}
	if err := repo.Create(context.Background(), offer); err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}
	return offer
}

func newTestTransaction(offer *models.Offer) *models.Transaction {
	return &models.Transaction{
		OfferID:            offer.ID,
		Amount:             offer.Price,
		Currency:           "USD",
		Status:             models.TransactionStatusPending,
		Method:             models.PaymentMethodGatewayOrder,
		ClientFeePercent:   decimal.Zero,
		ProviderFeePercent: decimal.NewFromInt(10),
	}
}

func stringPtr(s string) *string {
	return &s
}
