package domain

import "github.com/shopspring/decimal"

// ReceiptItem is one product line parsed from a receipt image.
type ReceiptItem struct {
	Name   string
	Amount decimal.Decimal
}

// ReceiptAnalysis is the external analyzer's view of a receipt image.
// Date is a YYYY-MM-DD string and may be empty when no date was recognized.
type ReceiptAnalysis struct {
	StoreName         string
	Date              string
	TotalAmount       decimal.Decimal
	SuggestedCategory string
	Items             []ReceiptItem
}
