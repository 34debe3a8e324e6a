package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budgets, adjustments
// and the month-scoped aggregates.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func (r *PgxBudgetRepository) UpsertBudget(ctx context.Context, budget domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO monthly_budgets (year, month, expense_category_id, budget_amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (year, month, expense_category_id)
		DO UPDATE SET budget_amount = EXCLUDED.budget_amount
		RETURNING id, created_at`,
		budget.Year, budget.Month, budget.ExpenseCategoryID, budget.BudgetAmount,
	).Scan(&budget.ID, &budget.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return &budget, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, year, month int) ([]domain.MonthlyBudget, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, year, month, expense_category_id, budget_amount, created_at
		FROM monthly_budgets
		WHERE year = $1 AND month = $2
		ORDER BY expense_category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.MonthlyBudget{}
	for rows.Next() {
		var b domain.MonthlyBudget
		if err := rows.Scan(&b.ID, &b.Year, &b.Month, &b.ExpenseCategoryID, &b.BudgetAmount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *PgxBudgetRepository) SaveAdjustment(ctx context.Context, adj domain.BudgetAdjustment) (*domain.BudgetAdjustment, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO budget_adjustments (year, month, expense_category_id, adjustment_amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		adj.Year, adj.Month, adj.ExpenseCategoryID, adj.AdjustmentAmount, adj.Description,
	).Scan(&adj.ID, &adj.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}
	return &adj, nil
}

// SumExpensesByCategory totals expense spend per category for one month.
// Itemized transactions contribute their item amounts, each against the
// item's own category when set and the parent's otherwise; transactions
// without items contribute the row amount.
func (r *PgxBudgetRepository) SumExpensesByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT category_id, SUM(amount)
		FROM (
			SELECT COALESCE(i.expense_category_id, t.expense_category_id) AS category_id,
			       i.amount AS amount
			FROM transaction_items i
			JOIN transactions t ON t.id = i.transaction_id
			WHERE t.type = 'expense'
			  AND EXTRACT(YEAR FROM t.date) = $1 AND EXTRACT(MONTH FROM t.date) = $2
			UNION ALL
			SELECT t.expense_category_id, t.amount
			FROM transactions t
			WHERE t.type = 'expense'
			  AND EXTRACT(YEAR FROM t.date) = $1 AND EXTRACT(MONTH FROM t.date) = $2
			  AND NOT EXISTS (SELECT 1 FROM transaction_items i WHERE i.transaction_id = t.id)
		) lines
		WHERE category_id IS NOT NULL
		GROUP BY category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}
	defer rows.Close()

	return scanCategorySums(rows)
}

func (r *PgxBudgetRepository) SumAdjustmentsByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT expense_category_id, SUM(adjustment_amount)
		FROM budget_adjustments
		WHERE year = $1 AND month = $2
		GROUP BY expense_category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to total adjustments: %w", err)
	}
	defer rows.Close()

	return scanCategorySums(rows)
}

// SumBudgetTransfersByCategory nets budget_transfer rows per category:
// incoming transfers count positive, outgoing negative.
func (r *PgxBudgetRepository) SumBudgetTransfersByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT category_id, SUM(amount)
		FROM (
			SELECT budget_to_category_id AS category_id, amount
			FROM transactions
			WHERE type = 'budget_transfer'
			  AND EXTRACT(YEAR FROM date) = $1 AND EXTRACT(MONTH FROM date) = $2
			UNION ALL
			SELECT budget_from_category_id, -amount
			FROM transactions
			WHERE type = 'budget_transfer'
			  AND EXTRACT(YEAR FROM date) = $1 AND EXTRACT(MONTH FROM date) = $2
		) lines
		WHERE category_id IS NOT NULL
		GROUP BY category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to net budget transfers: %w", err)
	}
	defer rows.Close()

	return scanCategorySums(rows)
}

func (r *PgxBudgetRepository) ListCreditSummaries(ctx context.Context, year, month int) ([]domain.MonthlyCreditSummary, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, year, month, credit_category_id, total_amount, created_at, updated_at
		FROM monthly_credit_summary
		WHERE year = $1 AND month = $2
		ORDER BY credit_category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.MonthlyCreditSummary{}
	for rows.Next() {
		var s domain.MonthlyCreditSummary
		if err := rows.Scan(&s.ID, &s.Year, &s.Month, &s.CreditCategoryID, &s.TotalAmount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

type sumRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanCategorySums(rows sumRows) (map[int64]decimal.Decimal, error) {
	sums := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var categoryID int64
		var sum decimal.Decimal
		if err := rows.Scan(&categoryID, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan category sum: %w", err)
		}
		sums[categoryID] = sum
	}
	return sums, rows.Err()
}
