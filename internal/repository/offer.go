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

// OfferRepository defines the interface for offer data access
type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	// UpdateStatus moves the offer from one status to another. A non-empty
	// note is appended to the description. Returns ErrStatusConflict when
	// the offer is no longer in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OfferStatus, note string) error
}

type offerRepository struct {
	db sqlx.ExtContext
}

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(q sqlx.ExtContext) OfferRepository {
	return &offerRepository{db: q}
}

const offerColumns = `id, client_id, provider_id, service_id, price, status, description, created_at, updated_at`

// Create inserts an offer. Offers are owned by the catalog side; this
// exists for seeding and tests.
func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	if offer.Status == "" {
		offer.Status = models.OfferStatusPending
	}

	query := `
		INSERT INTO offers (id, client_id, provider_id, service_id, price, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := sqlx.GetContext(ctx, r.db, offer, query,
		offer.ID,
		offer.ClientID,
		offer.ProviderID,
		offer.ServiceID,
		offer.Price,
		offer.Status,
		offer.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}

	return nil
}

// FindByID retrieves an offer by its UUID
func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	var offer models.Offer
	err := sqlx.GetContext(ctx, r.db, &offer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("offer %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find offer by id: %w", err)
	}

	return &offer, nil
}

// UpdateStatus performs a compare-and-set status change
func (r *offerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OfferStatus, note string) error {
	query := `
		UPDATE offers
		SET status = $3,
		    description = CASE WHEN $4 = '' THEN description
		                       WHEN description = '' THEN $4
		                       ELSE description || E'\n' || $4 END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, to, note)
	if err != nil {
		return fmt.Errorf("failed to update offer status: %w", err)
	}

	return expectOneRow(result)
}
