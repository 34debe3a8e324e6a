package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider bundles the PostgreSQL repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Category:    newPgxCategoryRepository(dbPool),
		Transaction: newPgxTransactionRepository(dbPool),
		Budget:      newPgxBudgetRepository(dbPool),
		Close:       dbPool.Close,
	}
}
