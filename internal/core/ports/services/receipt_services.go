package services

import (
	"context"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/sasatake/kakeibo_backend/internal/dto"
)

// ReceiptAnalyzer is the external image-analysis collaborator: it turns a
// normalized receipt image into a raw analysis. Implementations live outside
// the core (Vision OCR adapter); the core only filters and maps the result.
type ReceiptAnalyzer interface {
	Analyze(ctx context.Context, image []byte) (*domain.ReceiptAnalysis, error)
}

// ReceiptSvcFacade is the receipt intake contract.
type ReceiptSvcFacade interface {
	// AnalyzeReceipt runs the analyzer and applies the item filter
	// heuristics. A filter result of zero items is "no items", not an error.
	AnalyzeReceipt(ctx context.Context, image []byte) (*domain.ReceiptAnalysis, error)

	// CreateExpenseFromReceipt maps a confirmed analysis plus a chosen
	// payment method into one itemized expense transaction.
	CreateExpenseFromReceipt(ctx context.Context, req dto.ReceiptTransactionRequest) (*domain.Transaction, error)
}
