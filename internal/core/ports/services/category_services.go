package services

import (
	"context"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategorySvcFacade is the category store contract.
type CategorySvcFacade interface {
	ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error)
	ListWalletCategories(ctx context.Context) ([]domain.WalletCategory, error)
	ListCreditCategories(ctx context.Context) ([]domain.CreditCategory, error)

	CreateCategory(ctx context.Context, kind domain.CategoryKind, name string) (int64, error)
	RenameCategory(ctx context.Context, kind domain.CategoryKind, id int64, name string) error

	// OverrideWalletBalance is the reconciliation escape hatch behind
	// PUT /api/wallets/:id/balance. It bypasses ledger effects.
	OverrideWalletBalance(ctx context.Context, walletID int64, balance decimal.Decimal) (*domain.WalletCategory, error)
}
