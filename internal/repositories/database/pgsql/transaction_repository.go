package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger rows.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionSelect = `
	SELECT t.id, t.date, t.amount, t.type,
	       t.expense_category_id, t.wallet_category_id, t.credit_category_id,
	       t.transfer_from_wallet_id, t.transfer_to_wallet_id,
	       t.charge_from_wallet_id, t.charge_from_credit_id, t.charge_to_wallet_id,
	       t.budget_from_category_id, t.budget_to_category_id,
	       COALESCE(t.description, ''), COALESCE(t.memo, ''),
	       COALESCE(t.payment_location, ''), COALESCE(t.notes, ''),
	       t.created_at, t.updated_at,
	       COALESCE(ec.name, ''), COALESCE(wc.name, ''), COALESCE(cc.name, '')
	FROM transactions t
	LEFT JOIN expense_categories ec ON ec.id = t.expense_category_id
	LEFT JOIN wallet_categories wc ON wc.id = t.wallet_category_id
	LEFT JOIN credit_categories cc ON cc.id = t.credit_category_id
`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID, &t.Date, &t.Amount, &t.Type,
		&t.ExpenseCategoryID, &t.WalletCategoryID, &t.CreditCategoryID,
		&t.TransferFromWalletID, &t.TransferToWalletID,
		&t.ChargeFromWalletID, &t.ChargeFromCreditID, &t.ChargeToWalletID,
		&t.BudgetFromCategoryID, &t.BudgetToCategoryID,
		&t.Description, &t.Memo, &t.PaymentLocation, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
		&t.ExpenseCategoryName, &t.WalletCategoryName, &t.CreditCategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// applyEffect applies the wallet and credit summary deltas inside tx.
// Wallet updates go in id order so two concurrent mutations touching the
// same wallets cannot deadlock.
func applyEffect(ctx context.Context, tx pgx.Tx, effect domain.Effect) error {
	walletIDs := make([]int64, 0, len(effect.WalletDeltas))
	for id := range effect.WalletDeltas {
		walletIDs = append(walletIDs, id)
	}
	sort.Slice(walletIDs, func(i, j int) bool { return walletIDs[i] < walletIDs[j] })

	for _, id := range walletIDs {
		delta := effect.WalletDeltas[id]
		if delta.IsZero() {
			continue
		}
		tag, err := tx.Exec(ctx,
			`UPDATE wallet_categories SET balance = balance + $1 WHERE id = $2`,
			delta, id)
		if err != nil {
			return fmt.Errorf("failed to update balance of wallet %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("wallet %d not found", id))
		}
	}

	keys := make([]domain.CreditMonth, 0, len(effect.CreditDeltas))
	for key := range effect.CreditDeltas {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.CreditCategoryID != b.CreditCategoryID {
			return a.CreditCategoryID < b.CreditCategoryID
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	for _, key := range keys {
		delta := effect.CreditDeltas[key]
		if delta.IsZero() {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO monthly_credit_summary (year, month, credit_category_id, total_amount)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (year, month, credit_category_id)
			DO UPDATE SET total_amount = monthly_credit_summary.total_amount + EXCLUDED.total_amount,
			              updated_at = NOW()`,
			key.Year, key.Month, key.CreditCategoryID, delta)
		if err != nil {
			return fmt.Errorf("failed to update credit summary for card %d (%d-%02d): %w",
				key.CreditCategoryID, key.Year, key.Month, err)
		}
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, transactionID int64, items []domain.TransactionItem) error {
	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO transaction_items (transaction_id, name, amount, expense_category_id)
			VALUES ($1, $2, $3, $4)`,
			transactionID, item.Name, item.Amount, item.ExpenseCategoryID)
		if err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Name, err)
		}
	}
	return nil
}

// SaveTransaction inserts the ledger row, its items and the side effect in
// one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (
			date, amount, type,
			expense_category_id, wallet_category_id, credit_category_id,
			transfer_from_wallet_id, transfer_to_wallet_id,
			charge_from_wallet_id, charge_from_credit_id, charge_to_wallet_id,
			budget_from_category_id, budget_to_category_id,
			description, memo, payment_location, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`,
		txn.Date, txn.Amount, txn.Type,
		txn.ExpenseCategoryID, txn.WalletCategoryID, txn.CreditCategoryID,
		txn.TransferFromWalletID, txn.TransferToWalletID,
		txn.ChargeFromWalletID, txn.ChargeFromCreditID, txn.ChargeToWalletID,
		txn.BudgetFromCategoryID, txn.BudgetToCategoryID,
		txn.Description, txn.Memo, txn.PaymentLocation, txn.Notes,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := insertItems(ctx, tx, txn.ID, txn.Items); err != nil {
		return nil, err
	}
	if err := applyEffect(ctx, tx, effect); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return r.FindTransactionByID(ctx, txn.ID)
}

// UpdateTransaction rewrites the row and items under the existing id and
// applies the merged effect in one database transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE transactions SET
			date = $1, amount = $2, type = $3,
			expense_category_id = $4, wallet_category_id = $5, credit_category_id = $6,
			transfer_from_wallet_id = $7, transfer_to_wallet_id = $8,
			charge_from_wallet_id = $9, charge_from_credit_id = $10, charge_to_wallet_id = $11,
			budget_from_category_id = $12, budget_to_category_id = $13,
			description = $14, memo = $15, payment_location = $16, notes = $17,
			updated_at = NOW()
		WHERE id = $18`,
		txn.Date, txn.Amount, txn.Type,
		txn.ExpenseCategoryID, txn.WalletCategoryID, txn.CreditCategoryID,
		txn.TransferFromWalletID, txn.TransferToWalletID,
		txn.ChargeFromWalletID, txn.ChargeFromCreditID, txn.ChargeToWalletID,
		txn.BudgetFromCategoryID, txn.BudgetToCategoryID,
		txn.Description, txn.Memo, txn.PaymentLocation, txn.Notes,
		txn.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction %d: %w", txn.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d not found", txn.ID))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1`, txn.ID); err != nil {
		return nil, fmt.Errorf("failed to clear items of transaction %d: %w", txn.ID, err)
	}
	if err := insertItems(ctx, tx, txn.ID, txn.Items); err != nil {
		return nil, err
	}
	if err := applyEffect(ctx, tx, effect); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return r.FindTransactionByID(ctx, txn.ID)
}

// DeleteTransaction removes the row (items cascade) and applies the reversal
// effect in one database transaction.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, id int64, effect domain.Effect) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %d not found", id))
	}

	if err := applyEffect(ctx, tx, effect); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, transactionSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d not found", id))
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", id, err)
	}

	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	txn.Items = items[id]
	return txn, nil
}

func (r *PgxTransactionRepository) ListTransactionsByDate(ctx context.Context, date time.Time) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, transactionSelect+` WHERE t.date = $1 ORDER BY t.id`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	ids := []int64{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
		ids = append(ids, txn.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		items, err := r.loadItems(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range txns {
			txns[i].Items = items[txns[i].ID]
		}
	}
	return txns, nil
}

func (r *PgxTransactionRepository) loadItems(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT i.id, i.transaction_id, i.name, i.amount, i.expense_category_id, COALESCE(ec.name, '')
		FROM transaction_items i
		LEFT JOIN expense_categories ec ON ec.id = i.expense_category_id
		WHERE i.transaction_id = ANY($1)
		ORDER BY i.id`, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.TransactionItem)
	for rows.Next() {
		var item domain.TransactionItem
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.Name, &item.Amount, &item.ExpenseCategoryID, &item.ExpenseCategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}
		items[item.TransactionID] = append(items[item.TransactionID], item)
	}
	return items, rows.Err()
}

func (r *PgxTransactionRepository) ListPaymentLocations(ctx context.Context, search string, limit int) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT payment_location
		FROM transactions
		WHERE payment_location IS NOT NULL AND payment_location <> ''
		  AND payment_location ILIKE '%' || $1 || '%'
		GROUP BY payment_location
		ORDER BY MAX(date) DESC
		LIMIT $2`, search, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment locations: %w", err)
	}
	defer rows.Close()

	locations := []string{}
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("failed to scan payment location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
