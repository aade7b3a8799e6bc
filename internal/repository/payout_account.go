package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// PayoutAccountRepository resolves where a provider's payouts are sent
type PayoutAccountRepository interface {
	FindPayee(ctx context.Context, providerID uuid.UUID) (string, error)
	Upsert(ctx context.Context, providerID uuid.UUID, payee string) error
}

type payoutAccountRepository struct {
	db sqlx.ExtContext
}

// NewPayoutAccountRepository creates a new PayoutAccountRepository
func NewPayoutAccountRepository(q sqlx.ExtContext) PayoutAccountRepository {
	return &payoutAccountRepository{db: q}
}

// FindPayee returns the gateway payee of a provider
func (r *payoutAccountRepository) FindPayee(ctx context.Context, providerID uuid.UUID) (string, error) {
	var payee string
	err := sqlx.GetContext(ctx, r.db, &payee,
		`SELECT payee FROM provider_payout_accounts WHERE provider_id = $1`, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("payout account for provider %s: %w", providerID, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to find payout account: %w", err)
	}

	return payee, nil
}

// Upsert sets the payee of a provider
func (r *payoutAccountRepository) Upsert(ctx context.Context, providerID uuid.UUID, payee string) error {
	query := `
		INSERT INTO provider_payout_accounts (provider_id, payee)
		VALUES ($1, $2)
		ON CONFLICT (provider_id) DO UPDATE
		SET payee = EXCLUDED.payee, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, providerID, payee); err != nil {
		return fmt.Errorf("failed to upsert payout account: %w", err)
	}

	return nil
}
