package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the ledger entry kinds.
type TransactionType string

const (
	TypeIncome         TransactionType = "income"
	TypeExpense        TransactionType = "expense"
	TypeTransfer       TransactionType = "transfer"
	TypeCharge         TransactionType = "charge"
	TypeBudgetTransfer TransactionType = "budget_transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer, TypeCharge, TypeBudgetTransfer:
		return true
	}
	return false
}

// Transaction is a single ledger row. Only the link fields relevant to its
// type are populated; the rest stay nil.
//
// For type=transfer a nil TransferToWalletID means the withdrawal sentinel:
// funds leave every tracked wallet (e.g. an ATM withdrawal).
type Transaction struct {
	ID     int64
	Date   time.Time
	Amount decimal.Decimal
	Type   TransactionType

	ExpenseCategoryID    *int64
	WalletCategoryID     *int64
	CreditCategoryID     *int64
	TransferFromWalletID *int64
	TransferToWalletID   *int64
	ChargeFromWalletID   *int64
	ChargeFromCreditID   *int64
	ChargeToWalletID     *int64
	BudgetFromCategoryID *int64
	BudgetToCategoryID   *int64

	Description     string
	Memo            string
	PaymentLocation string
	Notes           string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined names, populated on reads only.
	ExpenseCategoryName string
	WalletCategoryName  string
	CreditCategoryName  string

	Items []TransactionItem
}

// TransactionItem is an itemized line of an expense transaction (manual
// itemization or receipt intake). Item sums are not required to match the
// parent amount; the monthly summary prefers item amounts when items exist.
type TransactionItem struct {
	ID                int64
	TransactionID     int64
	Name              string
	Amount            decimal.Decimal
	ExpenseCategoryID *int64

	ExpenseCategoryName string
}

// IsWithdrawal reports whether a transfer sends funds out of every tracked
// wallet instead of into another one.
func (t *Transaction) IsWithdrawal() bool {
	return t.Type == TypeTransfer && t.TransferToWalletID == nil
}
