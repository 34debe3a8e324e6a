package sqlite

import (
	"database/sql"
	"log/slog"

	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider bundles the SQLite repositories over one handle.
func NewRepositoryProvider(db *sql.DB) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Category:    newSQLiteCategoryRepository(db),
		Transaction: newSQLiteTransactionRepository(db),
		Budget:      newSQLiteBudgetRepository(db),
		Close: func() {
			if err := db.Close(); err != nil {
				slog.Error("Failed to close sqlite database", slog.String("error", err.Error()))
			}
		},
	}
}
