package dto

import (
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReceiptItemResponse is one filtered product line.
type ReceiptItemResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ReceiptAnalysisResponse is the POST /api/analyze-receipt body.
type ReceiptAnalysisResponse struct {
	StoreName         string                `json:"store_name"`
	Date              string                `json:"date"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	SuggestedCategory string                `json:"suggested_category"`
	Items             []ReceiptItemResponse `json:"items"`
}

func ToReceiptAnalysisResponse(analysis *domain.ReceiptAnalysis) ReceiptAnalysisResponse {
	resp := ReceiptAnalysisResponse{
		StoreName:         analysis.StoreName,
		Date:              analysis.Date,
		TotalAmount:       analysis.TotalAmount,
		SuggestedCategory: analysis.SuggestedCategory,
		Items:             make([]ReceiptItemResponse, len(analysis.Items)),
	}
	for i, item := range analysis.Items {
		resp.Items[i] = ReceiptItemResponse{Name: item.Name, Amount: item.Amount}
	}
	return resp
}

// ReceiptTransactionRequest records one expense from an analyzed receipt:
// the chosen payment method plus the (already filtered) items.
type ReceiptTransactionRequest struct {
	Date              string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount            decimal.Decimal `json:"amount"`
	ExpenseCategoryID int64           `json:"expense_category_id" binding:"required"`
	WalletCategoryID  *int64          `json:"wallet_category_id"`
	CreditCategoryID  *int64          `json:"credit_category_id"`
	StoreName         string          `json:"store_name"`
	PaymentLocation   string          `json:"payment_location"`
	Memo              string          `json:"memo"`

	Items []TransactionItemPayload `json:"items"`
}
