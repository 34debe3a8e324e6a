package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
)

type SQLiteTransactionRepository struct {
	BaseRepository
}

// newSQLiteTransactionRepository creates a new repository for ledger rows.
func newSQLiteTransactionRepository(db *sql.DB) portsrepo.TransactionRepositoryFacade {
	return &SQLiteTransactionRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*SQLiteTransactionRepository)(nil)

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var date, createdAt, updatedAt string
	var expenseID, walletID, creditID sql.NullInt64
	var transferFrom, transferTo sql.NullInt64
	var chargeFromWallet, chargeFromCredit, chargeTo sql.NullInt64
	var budgetFrom, budgetTo sql.NullInt64

	err := row.Scan(
		&t.ID, &date, &t.Amount, &t.Type,
		&expenseID, &walletID, &creditID,
		&transferFrom, &transferTo,
		&chargeFromWallet, &chargeFromCredit, &chargeTo,
		&budgetFrom, &budgetTo,
		&t.Description, &t.Memo, &t.PaymentLocation, &t.Notes,
		&createdAt, &updatedAt,
		&t.ExpenseCategoryName, &t.WalletCategoryName, &t.CreditCategoryName,
	)
	if err != nil {
		return nil, err
	}

	t.Date = parseDay(date)
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	t.ExpenseCategoryID = nullableID(expenseID)
	t.WalletCategoryID = nullableID(walletID)
	t.CreditCategoryID = nullableID(creditID)
	t.TransferFromWalletID = nullableID(transferFrom)
	t.TransferToWalletID = nullableID(transferTo)
	t.ChargeFromWalletID = nullableID(chargeFromWallet)
	t.ChargeFromCreditID = nullableID(chargeFromCredit)
	t.ChargeToWalletID = nullableID(chargeTo)
	t.BudgetFromCategoryID = nullableID(budgetFrom)
	t.BudgetToCategoryID = nullableID(budgetTo)
	return &t, nil
}

// applyEffect applies the wallet and credit summary deltas inside tx, in
// stable key order like the PostgreSQL backend.
func applyEffect(ctx context.Context, tx *sql.Tx, effect domain.Effect) error {
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
		res, err := tx.ExecContext(ctx,
			`UPDATE wallet_categories SET balance = balance + ? WHERE id = ?`,
			delta, id)
		if err != nil {
			return fmt.Errorf("failed to update balance of wallet %d: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
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
		_, err := tx.ExecContext(ctx, `
			INSERT INTO monthly_credit_summary (year, month, credit_category_id, total_amount)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (year, month, credit_category_id)
			DO UPDATE SET total_amount = total_amount + excluded.total_amount,
			              updated_at = CURRENT_TIMESTAMP`,
			key.Year, key.Month, key.CreditCategoryID, delta)
		if err != nil {
			return fmt.Errorf("failed to update credit summary for card %d (%d-%02d): %w",
				key.CreditCategoryID, key.Year, key.Month, err)
		}
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, transactionID int64, items []domain.TransactionItem) error {
	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transaction_items (transaction_id, name, amount, expense_category_id)
			VALUES (?, ?, ?, ?)`,
			transactionID, item.Name, item.Amount, item.ExpenseCategoryID)
		if err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Name, err)
		}
	}
	return nil
}

func (r *SQLiteTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(tx)

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (
			date, amount, type,
			expense_category_id, wallet_category_id, credit_category_id,
			transfer_from_wallet_id, transfer_to_wallet_id,
			charge_from_wallet_id, charge_from_credit_id, charge_to_wallet_id,
			budget_from_category_id, budget_to_category_id,
			description, memo, payment_location, notes
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.Date.Format(dayLayout), txn.Amount, txn.Type,
		txn.ExpenseCategoryID, txn.WalletCategoryID, txn.CreditCategoryID,
		txn.TransferFromWalletID, txn.TransferToWalletID,
		txn.ChargeFromWalletID, txn.ChargeFromCreditID, txn.ChargeToWalletID,
		txn.BudgetFromCategoryID, txn.BudgetToCategoryID,
		txn.Description, txn.Memo, txn.PaymentLocation, txn.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := insertItems(ctx, tx, id, txn.Items); err != nil {
		return nil, err
	}
	if err := applyEffect(ctx, tx, effect); err != nil {
		return nil, err
	}
	if err := r.Commit(tx); err != nil {
		return nil, err
	}

	return r.FindTransactionByID(ctx, id)
}

func (r *SQLiteTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(tx)

	res, err := tx.ExecContext(ctx, `
		UPDATE transactions SET
			date = ?, amount = ?, type = ?,
			expense_category_id = ?, wallet_category_id = ?, credit_category_id = ?,
			transfer_from_wallet_id = ?, transfer_to_wallet_id = ?,
			charge_from_wallet_id = ?, charge_from_credit_id = ?, charge_to_wallet_id = ?,
			budget_from_category_id = ?, budget_to_category_id = ?,
			description = ?, memo = ?, payment_location = ?, notes = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		txn.Date.Format(dayLayout), txn.Amount, txn.Type,
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
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d not found", txn.ID))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_items WHERE transaction_id = ?`, txn.ID); err != nil {
		return nil, fmt.Errorf("failed to clear items of transaction %d: %w", txn.ID, err)
	}
	if err := insertItems(ctx, tx, txn.ID, txn.Items); err != nil {
		return nil, err
	}
	if err := applyEffect(ctx, tx, effect); err != nil {
		return nil, err
	}
	if err := r.Commit(tx); err != nil {
		return nil, err
	}

	return r.FindTransactionByID(ctx, txn.ID)
}

func (r *SQLiteTransactionRepository) DeleteTransaction(ctx context.Context, id int64, effect domain.Effect) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(tx)

	res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %d not found", id))
	}

	if err := applyEffect(ctx, tx, effect); err != nil {
		return err
	}
	return r.Commit(tx)
}

func (r *SQLiteTransactionRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	txn, err := scanTransaction(r.DB.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *SQLiteTransactionRepository) ListTransactionsByDate(ctx context.Context, date time.Time) ([]domain.Transaction, error) {
	rows, err := r.DB.QueryContext(ctx, transactionSelect+` WHERE t.date = ? ORDER BY t.id`, date.Format(dayLayout))
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

func (r *SQLiteTransactionRepository) loadItems(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionItem, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(transactionIDs)), ",")
	args := make([]any, len(transactionIDs))
	for i, id := range transactionIDs {
		args[i] = id
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT i.id, i.transaction_id, i.name, i.amount, i.expense_category_id, COALESCE(ec.name, '')
		FROM transaction_items i
		LEFT JOIN expense_categories ec ON ec.id = i.expense_category_id
		WHERE i.transaction_id IN (`+placeholders+`)
		ORDER BY i.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.TransactionItem)
	for rows.Next() {
		var item domain.TransactionItem
		var categoryID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.Name, &item.Amount, &categoryID, &item.ExpenseCategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}
		item.ExpenseCategoryID = nullableID(categoryID)
		items[item.TransactionID] = append(items[item.TransactionID], item)
	}
	return items, rows.Err()
}

func (r *SQLiteTransactionRepository) ListPaymentLocations(ctx context.Context, search string, limit int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT payment_location
		FROM transactions
		WHERE payment_location IS NOT NULL AND payment_location <> ''
		  AND payment_location LIKE '%' || ? || '%'
		GROUP BY payment_location
		ORDER BY MAX(date) DESC
		LIMIT ?`, search, limit)
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
