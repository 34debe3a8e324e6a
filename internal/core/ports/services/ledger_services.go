package services

import (
	"context"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/sasatake/kakeibo_backend/internal/dto"
)

// LedgerSvcFacade is the ledger engine contract: creating, editing and
// deleting transactions with their side effects applied exactly once per
// active state, plus the pure reads.
type LedgerSvcFacade interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error

	GetTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactionsByDate(ctx context.Context, date string) ([]domain.Transaction, error)

	SuggestPaymentLocations(ctx context.Context, search string) ([]string, error)
}
