package db

import (
	"database/sql"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// NewTestDB wraps an already opened Postgres handle for tests. Migration
// and transaction logs are discarded.
func NewTestDB(sqlDB *sql.DB) *DB {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &DB{
		DB:     sqlx.NewDb(sqlDB, "postgres"),
		logger: logger,
	}
}
