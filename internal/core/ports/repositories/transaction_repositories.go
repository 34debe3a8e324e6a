package repositories

import (
	"context"
	"time"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
)

// TransactionRepositoryFacade persists ledger rows and applies their side
// effects. Every mutation applies the given effect (wallet balance and credit
// summary deltas) in the same database transaction as the row write, so a
// crash cannot leave a balance updated without its ledger row or vice versa.
type TransactionRepositoryFacade interface {
	// SaveTransaction inserts the row and its items and applies effect
	// atomically. The returned transaction carries the generated id and
	// timestamps.
	SaveTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error)

	// UpdateTransaction rewrites the row and its items under the existing id,
	// preserving created_at, and applies effect (reversal of the previous
	// side effects merged with the replacement's) atomically.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error)

	// DeleteTransaction removes the row (items cascade) and applies effect
	// (the inverse of the side effects applied at creation) atomically.
	DeleteTransaction(ctx context.Context, id int64, effect domain.Effect) error

	FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactionsByDate(ctx context.Context, date time.Time) ([]domain.Transaction, error)

	// ListPaymentLocations returns distinct historical payment_location
	// values containing search, most recently used first.
	ListPaymentLocations(ctx context.Context, search string, limit int) ([]string, error)
}
