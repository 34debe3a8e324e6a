package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type SQLiteBudgetRepository struct {
	BaseRepository
}

// newSQLiteBudgetRepository creates a new repository for budgets,
// adjustments and the month-scoped aggregates.
func newSQLiteBudgetRepository(db *sql.DB) portsrepo.BudgetRepositoryFacade {
	return &SQLiteBudgetRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.BudgetRepositoryFacade = (*SQLiteBudgetRepository)(nil)

// monthFilter matches transactions whose date falls in one calendar month.
// Dates are stored as YYYY-MM-DD text, so a string prefix comparison works.
const monthFilter = `strftime('%Y-%m', date) = printf('%04d-%02d', ?, ?)`

func (r *SQLiteBudgetRepository) UpsertBudget(ctx context.Context, budget domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	var createdAt string
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO monthly_budgets (year, month, expense_category_id, budget_amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (year, month, expense_category_id)
		DO UPDATE SET budget_amount = excluded.budget_amount
		RETURNING id, created_at`,
		budget.Year, budget.Month, budget.ExpenseCategoryID, budget.BudgetAmount,
	).Scan(&budget.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	budget.CreatedAt = parseTimestamp(createdAt)
	return &budget, nil
}

func (r *SQLiteBudgetRepository) ListBudgets(ctx context.Context, year, month int) ([]domain.MonthlyBudget, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, year, month, expense_category_id, budget_amount, created_at
		FROM monthly_budgets
		WHERE year = ? AND month = ?
		ORDER BY expense_category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.MonthlyBudget{}
	for rows.Next() {
		var b domain.MonthlyBudget
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Year, &b.Month, &b.ExpenseCategoryID, &b.BudgetAmount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.CreatedAt = parseTimestamp(createdAt)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteBudgetRepository) SaveAdjustment(ctx context.Context, adj domain.BudgetAdjustment) (*domain.BudgetAdjustment, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO budget_adjustments (year, month, expense_category_id, adjustment_amount, description)
		VALUES (?, ?, ?, ?, ?)`,
		adj.Year, adj.Month, adj.ExpenseCategoryID, adj.AdjustmentAmount, adj.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}
	adj.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &adj, nil
}

func (r *SQLiteBudgetRepository) SumExpensesByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT category_id, SUM(amount)
		FROM (
			SELECT COALESCE(i.expense_category_id, t.expense_category_id) AS category_id,
			       i.amount AS amount
			FROM transaction_items i
			JOIN transactions t ON t.id = i.transaction_id
			WHERE t.type = 'expense'
			  AND strftime('%Y-%m', t.date) = printf('%04d-%02d', ?, ?)
			UNION ALL
			SELECT t.expense_category_id, t.amount
			FROM transactions t
			WHERE t.type = 'expense'
			  AND strftime('%Y-%m', t.date) = printf('%04d-%02d', ?, ?)
			  AND NOT EXISTS (SELECT 1 FROM transaction_items i WHERE i.transaction_id = t.id)
		)
		WHERE category_id IS NOT NULL
		GROUP BY category_id`, year, month, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}
	defer rows.Close()

	return scanCategorySums(rows)
}

func (r *SQLiteBudgetRepository) SumAdjustmentsByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT expense_category_id, SUM(adjustment_amount)
		FROM budget_adjustments
		WHERE year = ? AND month = ?
		GROUP BY expense_category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to total adjustments: %w", err)
	}
	defer rows.Close()

	return scanCategorySums(rows)
}

func (r *SQLiteBudgetRepository) SumBudgetTransfersByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT category_id, SUM(amount)
		FROM (
			SELECT budget_to_category_id AS category_id, amount
			FROM transactions
			WHERE type = 'budget_transfer' AND `+monthFilter+`
			UNION ALL
			SELECT budget_from_category_id, -amount
			FROM transactions
			WHERE type = 'budget_transfer' AND `+monthFilter+`
		)
		WHERE category_id IS NOT NULL
		GROUP BY category_id`, year, month, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to net budget transfers: %w", err)
	}
	defer rows.Close()

	return scanCategorySums(rows)
}

func (r *SQLiteBudgetRepository) ListCreditSummaries(ctx context.Context, year, month int) ([]domain.MonthlyCreditSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, year, month, credit_category_id, total_amount, created_at, updated_at
		FROM monthly_credit_summary
		WHERE year = ? AND month = ?
		ORDER BY credit_category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.MonthlyCreditSummary{}
	for rows.Next() {
		var s domain.MonthlyCreditSummary
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.Year, &s.Month, &s.CreditCategoryID, &s.TotalAmount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit summary: %w", err)
		}
		s.CreatedAt = parseTimestamp(createdAt)
		s.UpdatedAt = parseTimestamp(updatedAt)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func scanCategorySums(rows *sql.Rows) (map[int64]decimal.Decimal, error) {
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
