package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type SQLiteCategoryRepository struct {
	BaseRepository
}

// newSQLiteCategoryRepository creates a new repository for the category tables.
func newSQLiteCategoryRepository(db *sql.DB) portsrepo.CategoryRepositoryFacade {
	return &SQLiteCategoryRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.CategoryRepositoryFacade = (*SQLiteCategoryRepository)(nil)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func tableFor(kind domain.CategoryKind) (string, error) {
	switch kind {
	case domain.KindExpense:
		return "expense_categories", nil
	case domain.KindWallet:
		return "wallet_categories", nil
	case domain.KindCredit:
		return "credit_categories", nil
	}
	return "", fmt.Errorf("%w: unknown category kind %q", apperrors.ErrValidation, kind)
}

func (r *SQLiteCategoryRepository) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, created_at FROM expense_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.ExpenseCategory{}
	for rows.Next() {
		var c domain.ExpenseCategory
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense category: %w", err)
		}
		c.CreatedAt = parseTimestamp(createdAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteCategoryRepository) ListWalletCategories(ctx context.Context) ([]domain.WalletCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, balance, created_at FROM wallet_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.WalletCategory{}
	for rows.Next() {
		var c domain.WalletCategory
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Balance, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet category: %w", err)
		}
		c.CreatedAt = parseTimestamp(createdAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteCategoryRepository) ListCreditCategories(ctx context.Context) ([]domain.CreditCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, created_at FROM credit_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.CreditCategory{}
	for rows.Next() {
		var c domain.CreditCategory
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit category: %w", err)
		}
		c.CreatedAt = parseTimestamp(createdAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteCategoryRepository) FindExpenseCategoryByID(ctx context.Context, id int64) (*domain.ExpenseCategory, error) {
	var c domain.ExpenseCategory
	var createdAt string
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, created_at FROM expense_categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense category %d not found", id))
		}
		return nil, fmt.Errorf("failed to find expense category %d: %w", id, err)
	}
	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

func (r *SQLiteCategoryRepository) FindWalletCategoryByID(ctx context.Context, id int64) (*domain.WalletCategory, error) {
	var c domain.WalletCategory
	var createdAt string
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, balance, created_at FROM wallet_categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Balance, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("wallet %d not found", id))
		}
		return nil, fmt.Errorf("failed to find wallet %d: %w", id, err)
	}
	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

func (r *SQLiteCategoryRepository) FindCreditCategoryByID(ctx context.Context, id int64) (*domain.CreditCategory, error) {
	var c domain.CreditCategory
	var createdAt string
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, created_at FROM credit_categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("credit category %d not found", id))
		}
		return nil, fmt.Errorf("failed to find credit category %d: %w", id, err)
	}
	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

func (r *SQLiteCategoryRepository) CreateCategory(ctx context.Context, kind domain.CategoryKind, name string) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	res, err := r.DB.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (name) VALUES (?)`, table), name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s category %q already exists", apperrors.ErrDuplicate, kind, name)
		}
		return 0, fmt.Errorf("failed to create %s category: %w", kind, err)
	}
	return res.LastInsertId()
}

func (r *SQLiteCategoryRepository) RenameCategory(ctx context.Context, kind domain.CategoryKind, id int64, name string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET name = ? WHERE id = ?`, table), name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s category %q already exists", apperrors.ErrDuplicate, kind, name)
		}
		return fmt.Errorf("failed to rename %s category %d: %w", kind, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s category %d not found", kind, id))
	}
	return nil
}

func (r *SQLiteCategoryRepository) OverrideWalletBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE wallet_categories SET balance = ? WHERE id = ?`, balance, id)
	if err != nil {
		return fmt.Errorf("failed to override balance of wallet %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("wallet %d not found", id))
	}
	return nil
}
