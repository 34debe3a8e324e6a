package repositories

import (
	"context"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategoryRepositoryFacade is the persistence surface for the three category
// reference tables. Lists are insertion (id) ordered; display ordering is a
// presentation concern kept out of the data model.
type CategoryRepositoryFacade interface {
	ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error)
	ListWalletCategories(ctx context.Context) ([]domain.WalletCategory, error)
	ListCreditCategories(ctx context.Context) ([]domain.CreditCategory, error)

	FindExpenseCategoryByID(ctx context.Context, id int64) (*domain.ExpenseCategory, error)
	FindWalletCategoryByID(ctx context.Context, id int64) (*domain.WalletCategory, error)
	FindCreditCategoryByID(ctx context.Context, id int64) (*domain.CreditCategory, error)

	// CreateCategory returns apperrors.ErrDuplicate when the name already
	// exists within the kind.
	CreateCategory(ctx context.Context, kind domain.CategoryKind, name string) (int64, error)
	RenameCategory(ctx context.Context, kind domain.CategoryKind, id int64, name string) error

	// OverrideWalletBalance sets a wallet balance directly, bypassing ledger
	// effect bookkeeping. Reconciliation only.
	OverrideWalletBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}
