package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
)

// ErrAnalyzerUnavailable is returned when receipt analysis is not configured.
var ErrAnalyzerUnavailable = errors.New("receipt analyzer is not configured")

// storeKeywords flag OCR lines that name the store or a summary row rather
// than a purchasable item. Receipts mix Japanese and English labels.
var storeKeywords = []string{
	"店", "ストア", "shop", "store", "market", "mart", "薬局", "ドラッグ",
	"合計", "小計", "税込", "税抜", "total", "subtotal", "計", "円",
}

// receiptService implements receipt intake on top of an external analyzer
// and the ledger engine.
type receiptService struct {
	analyzer  portssvc.ReceiptAnalyzer
	ledgerSvc portssvc.LedgerSvcFacade
}

// NewReceiptService creates the receipt intake service. analyzer may be nil
// when OCR is disabled; AnalyzeReceipt then fails with ErrAnalyzerUnavailable.
func NewReceiptService(analyzer portssvc.ReceiptAnalyzer, ledgerSvc portssvc.LedgerSvcFacade) portssvc.ReceiptSvcFacade {
	return &receiptService{analyzer: analyzer, ledgerSvc: ledgerSvc}
}

var _ portssvc.ReceiptSvcFacade = (*receiptService)(nil)

func (s *receiptService) AnalyzeReceipt(ctx context.Context, image []byte) (*domain.ReceiptAnalysis, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if s.analyzer == nil {
		return nil, ErrAnalyzerUnavailable
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", apperrors.ErrValidation)
	}

	analysis, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("receipt analysis failed: %w", err)
	}

	raw := len(analysis.Items)
	analysis.Items = FilterReceiptItems(analysis.Items, analysis.StoreName)
	logger.Info("Receipt analyzed",
		slog.String("store", analysis.StoreName),
		slog.Int("raw_items", raw),
		slog.Int("items", len(analysis.Items)))
	return analysis, nil
}

// FilterReceiptItems drops OCR lines that are not purchasable items: zero or
// negative amounts, single-character names, digits-only names (stray product
// codes), lines that repeat the recognized store name, and lines containing a
// store or summary keyword.
func FilterReceiptItems(items []domain.ReceiptItem, storeName string) []domain.ReceiptItem {
	filtered := make([]domain.ReceiptItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" || utf8.RuneCountInString(name) <= 1 {
			continue
		}
		if !item.Amount.IsPositive() {
			continue
		}
		if isDigitsOnly(name) {
			continue
		}
		if storeName != "" && strings.EqualFold(name, storeName) {
			continue
		}
		if containsStoreKeyword(name) {
			continue
		}
		filtered = append(filtered, domain.ReceiptItem{Name: name, Amount: item.Amount})
	}
	return filtered
}

func isDigitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsStoreKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range storeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CreateExpenseFromReceipt records one itemized expense from a confirmed
// analysis. It goes through the ledger engine so validation and wallet or
// credit side effects behave exactly like a hand-entered expense.
func (s *receiptService) CreateExpenseFromReceipt(ctx context.Context, req dto.ReceiptTransactionRequest) (*domain.Transaction, error) {
	date := req.Date
	if date == "" {
		date = time.Now().Format(dto.DateLayout)
	}
	location := req.PaymentLocation
	if location == "" {
		location = req.StoreName
	}

	expenseCategoryID := req.ExpenseCategoryID
	create := dto.CreateTransactionRequest{
		Date:              date,
		Amount:            req.Amount,
		Type:              string(domain.TypeExpense),
		ExpenseCategoryID: &expenseCategoryID,
		WalletCategoryID:  req.WalletCategoryID,
		CreditCategoryID:  req.CreditCategoryID,
		Description:       req.StoreName,
		Memo:              req.Memo,
		PaymentLocation:   location,
		Items:             req.Items,
	}
	return s.ledgerSvc.CreateTransaction(ctx, create)
}
