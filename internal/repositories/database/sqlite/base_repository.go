package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
)

// BaseRepository provides common transaction handling for the SQLite
// repositories. database/sql is used here instead of pgx; the modernc.org
// driver needs no cgo, which keeps the single-binary deploy story intact.
type BaseRepository struct {
	DB *sql.DB
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

const dayLayout = "2006-01-02"

// timestampLayouts covers the formats SQLite hands back for DATETIME
// columns depending on how the value was written.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05Z07:00",
	dayLayout,
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseDay(s string) time.Time {
	if len(s) >= len(dayLayout) {
		if t, err := time.Parse(dayLayout, s[:len(dayLayout)]); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
