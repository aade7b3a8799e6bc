// Package repository provides the Postgres data access layer for offers,
// transactions and the supporting platform tables.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/benx421/payment-gateway/escrow/internal/db"
	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Offers         OfferRepository
	Transactions   TransactionRepository
	PayoutAccounts PayoutAccountRepository
}

// Store hands out repositories on the connection pool and runs units of
// work inside a single database transaction.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Repositories returns repositories bound to the connection pool.
func (s *Store) Repositories() Repositories {
	return newRepositories(s.db)
}

// WithinTx runs fn with repositories bound to one READ COMMITTED
// transaction. Nothing fn writes is visible unless it returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return s.db.WithinTx(ctx, func(tx *sqlx.Tx) error {
		return fn(newRepositories(tx))
	})
}

func newRepositories(q sqlx.ExtContext) Repositories {
	return Repositories{
		Offers:         NewOfferRepository(q),
		Transactions:   NewTransactionRepository(q),
		PayoutAccounts: NewPayoutAccountRepository(q),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// expectOneRow turns a zero-row compare-and-set update into ErrStatusConflict.
func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrStatusConflict
	}
	return nil
}
