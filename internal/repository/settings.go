package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/benx421/payment-gateway/escrow/internal/fees"
)

// SettingsRepository reads the platform-wide commission percentages. It is
// a fees.Source; when no row exists the configured defaults apply.
type SettingsRepository struct {
	db       sqlx.ExtContext
	defaults fees.FeeConfig
}

// NewSettingsRepository creates a SettingsRepository
func NewSettingsRepository(q sqlx.ExtContext, defaults fees.FeeConfig) *SettingsRepository {
	return &SettingsRepository{db: q, defaults: defaults}
}

// FeeConfig implements fees.Source
func (r *SettingsRepository) FeeConfig(ctx context.Context) (fees.FeeConfig, error) {
	var row struct {
		ClientFeePercent   decimal.Decimal `db:"client_fee_percent"`
		ProviderFeePercent decimal.Decimal `db:"provider_fee_percent"`
	}

	err := sqlx.GetContext(ctx, r.db, &row,
		`SELECT client_fee_percent, provider_fee_percent FROM platform_settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return r.defaults, nil
	}
	if err != nil {
		return fees.FeeConfig{}, fmt.Errorf("failed to read platform settings: %w", err)
	}

	return fees.FeeConfig{
		ClientFeePercent:   row.ClientFeePercent,
		ProviderFeePercent: row.ProviderFeePercent,
	}, nil
}

// SaveFeeConfig stores the platform-wide commission percentages
func (r *SettingsRepository) SaveFeeConfig(ctx context.Context, cfg fees.FeeConfig) error {
	query := `
		INSERT INTO platform_settings (id, client_fee_percent, provider_fee_percent)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE
		SET client_fee_percent = EXCLUDED.client_fee_percent,
		    provider_fee_percent = EXCLUDED.provider_fee_percent,
		    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, cfg.ClientFeePercent, cfg.ProviderFeePercent); err != nil {
		return fmt.Errorf("failed to save platform settings: %w", err)
	}

	return nil
}
