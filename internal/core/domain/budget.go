package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget is the planned spend for one expense category in one month.
// (year, month, expense_category_id) is unique.
type MonthlyBudget struct {
	ID                int64
	Year              int
	Month             int
	ExpenseCategoryID int64
	BudgetAmount      decimal.Decimal
	CreatedAt         time.Time
}

// MonthlyCreditSummary is the running aggregate of charge-type spend on one
// card for one month. total_amount is owned by the ledger engine.
type MonthlyCreditSummary struct {
	ID               int64
	Year             int
	Month            int
	CreditCategoryID int64
	TotalAmount      decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BudgetAdjustment shifts the computed remaining for one category/month
// without touching budget_amount or creating a transaction. Persisted so it
// survives recomputation.
type BudgetAdjustment struct {
	ID                int64
	Year              int
	Month             int
	ExpenseCategoryID int64
	AdjustmentAmount  decimal.Decimal
	Description       string
	CreatedAt         time.Time
}

// ExpenseSummaryLine is one row of the monthly expense summary.
type ExpenseSummaryLine struct {
	CategoryID int64
	Category   string
	Total      decimal.Decimal
	Budget     decimal.Decimal
	Remaining  decimal.Decimal
}

// CreditSummaryLine is one row of the monthly credit summary.
type CreditSummaryLine struct {
	CategoryID int64
	Category   string
	Total      decimal.Decimal
}

// MonthlySummary is the full summary view for one month.
type MonthlySummary struct {
	Year           int
	Month          int
	ExpenseSummary []ExpenseSummaryLine
	CreditSummary  []CreditSummaryLine
}

// PreviousMonth returns the calendar month before (year, month), handling
// the January to December rollover.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
