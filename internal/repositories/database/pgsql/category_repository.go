package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for the category tables.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

// tableFor maps a category kind onto its table name. The kind is a closed
// enum, never user input, so interpolating the name is safe.
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

func (r *PgxCategoryRepository) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, created_at FROM expense_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.ExpenseCategory{}
	for rows.Next() {
		var c domain.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PgxCategoryRepository) ListWalletCategories(ctx context.Context) ([]domain.WalletCategory, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, balance, created_at FROM wallet_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.WalletCategory{}
	for rows.Next() {
		var c domain.WalletCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Balance, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PgxCategoryRepository) ListCreditCategories(ctx context.Context) ([]domain.CreditCategory, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, created_at FROM credit_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.CreditCategory{}
	for rows.Next() {
		var c domain.CreditCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PgxCategoryRepository) FindExpenseCategoryByID(ctx context.Context, id int64) (*domain.ExpenseCategory, error) {
	var c domain.ExpenseCategory
	err := r.Pool.QueryRow(ctx, `SELECT id, name, created_at FROM expense_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense category %d not found", id))
		}
		return nil, fmt.Errorf("failed to find expense category %d: %w", id, err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) FindWalletCategoryByID(ctx context.Context, id int64) (*domain.WalletCategory, error) {
	var c domain.WalletCategory
	err := r.Pool.QueryRow(ctx, `SELECT id, name, balance, created_at FROM wallet_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Balance, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("wallet %d not found", id))
		}
		return nil, fmt.Errorf("failed to find wallet %d: %w", id, err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) FindCreditCategoryByID(ctx context.Context, id int64) (*domain.CreditCategory, error) {
	var c domain.CreditCategory
	err := r.Pool.QueryRow(ctx, `SELECT id, name, created_at FROM credit_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("credit category %d not found", id))
		}
		return nil, fmt.Errorf("failed to find credit category %d: %w", id, err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) CreateCategory(ctx context.Context, kind domain.CategoryKind, name string) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var id int64
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, table)
	if err := r.Pool.QueryRow(ctx, query, name).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return 0, fmt.Errorf("%w: %s category %q already exists", apperrors.ErrDuplicate, kind, name)
		}
		return 0, fmt.Errorf("failed to create %s category: %w", kind, err)
	}
	return id, nil
}

func (r *PgxCategoryRepository) RenameCategory(ctx context.Context, kind domain.CategoryKind, id int64, name string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2`, table)
	tag, err := r.Pool.Exec(ctx, query, name, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s category %q already exists", apperrors.ErrDuplicate, kind, name)
		}
		return fmt.Errorf("failed to rename %s category %d: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s category %d not found", kind, id))
	}
	return nil
}

func (r *PgxCategoryRepository) OverrideWalletBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE wallet_categories SET balance = $1 WHERE id = $2`, balance, id)
	if err != nil {
		return fmt.Errorf("failed to override balance of wallet %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("wallet %d not found", id))
	}
	return nil
}
