package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// TransactionRepository defines the interface for transaction data access.
// Every update is a compare-and-set on the current status and returns
// models.ErrStatusConflict when no row matched.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindActiveByOfferID(ctx context.Context, offerID uuid.UUID) (*models.Transaction, error)
	ListOverdueReviews(ctx context.Context, now time.Time, limit int) ([]*models.Transaction, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus) error
	MarkPaymentInitiated(ctx context.Context, id uuid.UUID, orderID string, reviewDeadline time.Time) error
	MarkCompleted(ctx context.Context, id uuid.UUID, from models.TransactionStatus, captureID *string) error
	ExtendReviewDeadline(ctx context.Context, id uuid.UUID, reviewDeadline time.Time) error
	RecordCapture(ctx context.Context, id uuid.UUID, captureID string) error
	MarkTransferred(ctx context.Context, id uuid.UUID, transferID string, transferredAt time.Time) error
	MarkRefunded(ctx context.Context, id uuid.UUID, from models.TransactionStatus, refundID string) error
}

type transactionRepository struct {
	db sqlx.ExtContext
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(q sqlx.ExtContext) TransactionRepository {
	return &transactionRepository{db: q}
}

const transactionColumns = `
	id, offer_id, amount, currency, status, payment_method,
	payment_intent_id, capture_id, transfer_id, refund_id,
	client_fee_percent, provider_fee_percent, review_deadline,
	transfer_status, transfer_date, created_at, updated_at`

// Create inserts a new transaction. Returns ErrDuplicateTransaction when
// the offer already has an active transaction.
func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.TransferStatus == "" {
		tx.TransferStatus = models.TransferStatusNone
	}

	query := `
		INSERT INTO transactions (
			id, offer_id, amount, currency, status, payment_method,
			payment_intent_id, capture_id, client_fee_percent, provider_fee_percent,
			review_deadline, transfer_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := sqlx.GetContext(ctx, r.db, tx, query,
		tx.ID,
		tx.OfferID,
		tx.Amount,
		tx.Currency,
		tx.Status,
		tx.Method,
		tx.PaymentIntentID,
		tx.CaptureID,
		tx.ClientFeePercent,
		tx.ProviderFeePercent,
		tx.ReviewDeadline,
		tx.TransferStatus,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a transaction by its UUID
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	var tx models.Transaction
	err := sqlx.GetContext(ctx, r.db, &tx, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by id: %w", err)
	}

	return &tx, nil
}

// FindActiveByOfferID returns the offer's transaction that is not
// cancelled, declined or refunded.
func (r *transactionRepository) FindActiveByOfferID(ctx context.Context, offerID uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE offer_id = $1 AND status NOT IN ('CANCELLED', 'DECLINED', 'REFUNDED')
	`

	var tx models.Transaction
	err := sqlx.GetContext(ctx, r.db, &tx, query, offerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active transaction for offer %s: %w", offerID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active transaction: %w", err)
	}

	return &tx, nil
}

// ListOverdueReviews returns transactions still in provider review whose
// deadline has passed, oldest first.
func (r *transactionRepository) ListOverdueReviews(ctx context.Context, now time.Time, limit int) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = 'PROVIDER_REVIEW' AND review_deadline < $1
		ORDER BY review_deadline
		LIMIT $2
	`

	var txs []*models.Transaction
	if err := sqlx.SelectContext(ctx, r.db, &txs, query, now, limit); err != nil {
		return nil, fmt.Errorf("failed to list overdue reviews: %w", err)
	}

	return txs, nil
}

// UpdateStatus performs a compare-and-set status change
func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus) error {
	query := `
		UPDATE transactions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	return expectOneRow(result)
}

// MarkPaymentInitiated records the gateway order and opens the provider
// review window.
func (r *transactionRepository) MarkPaymentInitiated(ctx context.Context, id uuid.UUID, orderID string, reviewDeadline time.Time) error {
	query := `
		UPDATE transactions
		SET status = 'PROVIDER_REVIEW',
		    payment_intent_id = $2,
		    review_deadline = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' AND payment_intent_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, orderID, reviewDeadline)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to mark payment initiated: %w", err)
	}

	return expectOneRow(result)
}

// MarkCompleted completes the transaction. A capture id already on the row
// is kept.
func (r *transactionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, from models.TransactionStatus, captureID *string) error {
	query := `
		UPDATE transactions
		SET status = 'COMPLETED',
		    capture_id = COALESCE(capture_id, $3),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, captureID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction completed: %w", err)
	}

	return expectOneRow(result)
}

// ExtendReviewDeadline resets the review window of a transaction in review.
func (r *transactionRepository) ExtendReviewDeadline(ctx context.Context, id uuid.UUID, reviewDeadline time.Time) error {
	query := `
		UPDATE transactions
		SET review_deadline = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PROVIDER_REVIEW'
	`

	result, err := r.db.ExecContext(ctx, query, id, reviewDeadline)
	if err != nil {
		return fmt.Errorf("failed to extend review deadline: %w", err)
	}

	return expectOneRow(result)
}

// RecordCapture stores a capture id on a row that has none, whatever its
// status.
func (r *transactionRepository) RecordCapture(ctx context.Context, id uuid.UUID, captureID string) error {
	query := `
		UPDATE transactions
		SET capture_id = $2, updated_at = NOW()
		WHERE id = $1 AND capture_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, captureID)
	if err != nil {
		return fmt.Errorf("failed to record capture: %w", err)
	}

	return expectOneRow(result)
}

// MarkTransferred records the provider payout. It matches only completed
// transactions that were never paid out.
func (r *transactionRepository) MarkTransferred(ctx context.Context, id uuid.UUID, transferID string, transferredAt time.Time) error {
	query := `
		UPDATE transactions
		SET transfer_id = $2,
		    transfer_status = 'COMPLETED',
		    transfer_date = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'COMPLETED' AND transfer_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, transferID, transferredAt)
	if err != nil {
		return fmt.Errorf("failed to mark transaction transferred: %w", err)
	}

	return expectOneRow(result)
}

// MarkRefunded records a refund. It matches only rows never refunded.
func (r *transactionRepository) MarkRefunded(ctx context.Context, id uuid.UUID, from models.TransactionStatus, refundID string) error {
	query := `
		UPDATE transactions
		SET status = 'REFUNDED',
		    refund_id = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2 AND refund_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, from, refundID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction refunded: %w", err)
	}

	return expectOneRow(result)
}
