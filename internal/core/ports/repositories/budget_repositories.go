package repositories

import (
	"context"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepositoryFacade persists monthly budgets and adjustments and exposes
// the month-scoped aggregates the summary is computed from.
type BudgetRepositoryFacade interface {
	// UpsertBudget inserts or replaces the row keyed on
	// (year, month, expense_category_id).
	UpsertBudget(ctx context.Context, budget domain.MonthlyBudget) (*domain.MonthlyBudget, error)
	ListBudgets(ctx context.Context, year, month int) ([]domain.MonthlyBudget, error)

	SaveAdjustment(ctx context.Context, adj domain.BudgetAdjustment) (*domain.BudgetAdjustment, error)

	// SumExpensesByCategory totals expense spend per expense category for the
	// month. Itemized transactions contribute per item (the item's category,
	// else the parent's); non-itemized ones contribute the row amount.
	SumExpensesByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error)

	// SumAdjustmentsByCategory nets budget_adjustments per category.
	SumAdjustmentsByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error)

	// SumBudgetTransfersByCategory nets budget_transfer transactions per
	// category for the month: transfers in count positive, out negative.
	SumBudgetTransfersByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error)

	ListCreditSummaries(ctx context.Context, year, month int) ([]domain.MonthlyCreditSummary, error)
}
