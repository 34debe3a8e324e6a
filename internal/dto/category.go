package dto

import (
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest creates a category of the kind implied by the route.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameCategoryRequest renames an existing category.
type RenameCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ExpenseCategoryResponse mirrors a row of expense_categories.
type ExpenseCategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// WalletCategoryResponse mirrors a row of wallet_categories.
type WalletCategoryResponse struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// CreditCategoryResponse mirrors a row of credit_categories.
type CreditCategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func ToExpenseCategoryResponses(categories []domain.ExpenseCategory) []ExpenseCategoryResponse {
	out := make([]ExpenseCategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = ExpenseCategoryResponse{ID: c.ID, Name: c.Name}
	}
	return out
}

func ToWalletCategoryResponses(categories []domain.WalletCategory) []WalletCategoryResponse {
	out := make([]WalletCategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = WalletCategoryResponse{ID: c.ID, Name: c.Name, Balance: c.Balance}
	}
	return out
}

func ToCreditCategoryResponses(categories []domain.CreditCategory) []CreditCategoryResponse {
	out := make([]CreditCategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CreditCategoryResponse{ID: c.ID, Name: c.Name}
	}
	return out
}
