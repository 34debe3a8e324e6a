package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryKind distinguishes the three reference tables the ledger links to.
type CategoryKind string

const (
	KindExpense CategoryKind = "expense"
	KindWallet  CategoryKind = "wallet"
	KindCredit  CategoryKind = "credit"
)

// ExpenseCategory is a spending bucket budgets and expenses are keyed on.
type ExpenseCategory struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// WalletCategory is a tracked store of funds (bank account, cash, e-money).
// Balance is owned by the ledger engine; everything else only reads it.
type WalletCategory struct {
	ID        int64
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// CreditCategory is a credit card. Spend accrues into a monthly summary
// rather than debiting a balance per transaction.
type CreditCategory struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
