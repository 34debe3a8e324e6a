package dto

import (
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaveBudgetRequest upserts one monthly budget row.
type SaveBudgetRequest struct {
	Year              int             `json:"year" binding:"required"`
	Month             int             `json:"month" binding:"required,month"`
	ExpenseCategoryID int64           `json:"expense_category_id" binding:"required"`
	BudgetAmount      decimal.Decimal `json:"budget_amount"`
}

// BudgetResponse mirrors a monthly_budgets row.
type BudgetResponse struct {
	ID                int64           `json:"id"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	ExpenseCategoryID int64           `json:"expense_category_id"`
	BudgetAmount      decimal.Decimal `json:"budget_amount"`
}

func ToBudgetResponses(budgets []domain.MonthlyBudget) []BudgetResponse {
	out := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = BudgetResponse{
			ID:                b.ID,
			Year:              b.Year,
			Month:             b.Month,
			ExpenseCategoryID: b.ExpenseCategoryID,
			BudgetAmount:      b.BudgetAmount,
		}
	}
	return out
}

// BudgetAdjustmentRequest is the POST /api/budget-adjustments payload; the
// client sends the delta under category_id.
type BudgetAdjustmentRequest struct {
	Year             int             `json:"year" binding:"required"`
	Month            int             `json:"month" binding:"required,month"`
	CategoryID       int64           `json:"category_id" binding:"required"`
	AdjustmentAmount decimal.Decimal `json:"adjustment_amount"`
	Description      string          `json:"description"`
}

// ExpenseSummaryLineResponse is one expense category's month aggregate.
type ExpenseSummaryLineResponse struct {
	CategoryID int64           `json:"category_id"`
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Budget     decimal.Decimal `json:"budget"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// CreditSummaryLineResponse is one card's month aggregate.
type CreditSummaryLineResponse struct {
	CategoryID int64           `json:"category_id"`
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
}

// MonthlySummaryResponse is the GET /api/summary/:year/:month body.
type MonthlySummaryResponse struct {
	ExpenseSummary []ExpenseSummaryLineResponse `json:"expenseSummary"`
	CreditSummary  []CreditSummaryLineResponse  `json:"creditSummary"`
}

func ToMonthlySummaryResponse(summary *domain.MonthlySummary) MonthlySummaryResponse {
	resp := MonthlySummaryResponse{
		ExpenseSummary: make([]ExpenseSummaryLineResponse, len(summary.ExpenseSummary)),
		CreditSummary:  make([]CreditSummaryLineResponse, len(summary.CreditSummary)),
	}
	for i, line := range summary.ExpenseSummary {
		resp.ExpenseSummary[i] = ExpenseSummaryLineResponse{
			CategoryID: line.CategoryID,
			Category:   line.Category,
			Total:      line.Total,
			Budget:     line.Budget,
			Remaining:  line.Remaining,
		}
	}
	for i, line := range summary.CreditSummary {
		resp.CreditSummary[i] = CreditSummaryLineResponse{
			CategoryID: line.CategoryID,
			Category:   line.Category,
			Total:      line.Total,
		}
	}
	return resp
}

// UpdateWalletBalanceRequest is the PUT /api/wallets/:id/balance payload.
type UpdateWalletBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}
