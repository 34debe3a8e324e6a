package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// budgetService implements the budget aggregator: monthly summary
// derivation, budget upserts, previous-month copy and adjustments.
type budgetService struct {
	budgetRepo   portsrepo.BudgetRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewBudgetService creates the budget aggregator service.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.BudgetSvcFacade {
	return &budgetService{budgetRepo: budgetRepo, categoryRepo: categoryRepo}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func validateYearMonth(year, month int) error {
	if year < 1 || month < 1 || month > 12 {
		return fmt.Errorf("%w: invalid year/month %d-%d", apperrors.ErrValidation, year, month)
	}
	return nil
}

// GetMonthlySummary derives, for every expense category,
// remaining = budget - total + adjustments + transfers in - transfers out,
// and returns the per-card credit totals for the month.
func (s *budgetService) GetMonthlySummary(ctx context.Context, year, month int) (*domain.MonthlySummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}

	budgets, err := s.budgetRepo.ListBudgets(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	budgetByCategory := make(map[int64]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		budgetByCategory[b.ExpenseCategoryID] = b.BudgetAmount
	}

	totals, err := s.budgetRepo.SumExpensesByCategory(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}
	adjustments, err := s.budgetRepo.SumAdjustmentsByCategory(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to total adjustments: %w", err)
	}
	transfers, err := s.budgetRepo.SumBudgetTransfersByCategory(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to net budget transfers: %w", err)
	}

	summary := &domain.MonthlySummary{
		Year:           year,
		Month:          month,
		ExpenseSummary: make([]domain.ExpenseSummaryLine, len(categories)),
	}
	for i, cat := range categories {
		budget := budgetByCategory[cat.ID]
		total := totals[cat.ID]
		remaining := budget.Sub(total).Add(adjustments[cat.ID]).Add(transfers[cat.ID])
		summary.ExpenseSummary[i] = domain.ExpenseSummaryLine{
			CategoryID: cat.ID,
			Category:   cat.Name,
			Total:      total,
			Budget:     budget,
			Remaining:  remaining,
		}
	}

	creditCategories, err := s.categoryRepo.ListCreditCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit categories: %w", err)
	}
	creditSummaries, err := s.budgetRepo.ListCreditSummaries(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit summaries: %w", err)
	}
	creditTotals := make(map[int64]decimal.Decimal, len(creditSummaries))
	for _, cs := range creditSummaries {
		creditTotals[cs.CreditCategoryID] = cs.TotalAmount
	}
	summary.CreditSummary = make([]domain.CreditSummaryLine, len(creditCategories))
	for i, card := range creditCategories {
		summary.CreditSummary[i] = domain.CreditSummaryLine{
			CategoryID: card.ID,
			Category:   card.Name,
			Total:      creditTotals[card.ID],
		}
	}

	logger.Debug("Monthly summary computed",
		slog.Int("year", year), slog.Int("month", month),
		slog.Int("expense_lines", len(summary.ExpenseSummary)),
		slog.Int("credit_lines", len(summary.CreditSummary)))
	return summary, nil
}

// SetBudget upserts one (year, month, category) budget row.
func (s *budgetService) SetBudget(ctx context.Context, req dto.SaveBudgetRequest) (*domain.MonthlyBudget, error) {
	if err := validateYearMonth(req.Year, req.Month); err != nil {
		return nil, err
	}
	if req.BudgetAmount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount must not be negative", apperrors.ErrValidation)
	}
	if _, err := s.categoryRepo.FindExpenseCategoryByID(ctx, req.ExpenseCategoryID); err != nil {
		return nil, fmt.Errorf("expense category %d: %w", req.ExpenseCategoryID, err)
	}

	return s.budgetRepo.UpsertBudget(ctx, domain.MonthlyBudget{
		Year:              req.Year,
		Month:             req.Month,
		ExpenseCategoryID: req.ExpenseCategoryID,
		BudgetAmount:      req.BudgetAmount,
	})
}

// ListBudgets returns the raw budget rows for a month.
func (s *budgetService) ListBudgets(ctx context.Context, year, month int) ([]domain.MonthlyBudget, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	return s.budgetRepo.ListBudgets(ctx, year, month)
}

// CopyPreviousMonth upserts the previous month's budget rows into the target
// month. Categories already budgeted in the target month are overwritten;
// rows for other categories stay untouched.
func (s *budgetService) CopyPreviousMonth(ctx context.Context, year, month int) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateYearMonth(year, month); err != nil {
		return 0, err
	}

	prevYear, prevMonth := domain.PreviousMonth(year, month)
	previous, err := s.budgetRepo.ListBudgets(ctx, prevYear, prevMonth)
	if err != nil {
		return 0, fmt.Errorf("failed to list previous month budgets: %w", err)
	}
	if len(previous) == 0 {
		return 0, fmt.Errorf("%w: no budgets for %d-%02d", apperrors.ErrNotFound, prevYear, prevMonth)
	}

	for _, b := range previous {
		if _, err := s.budgetRepo.UpsertBudget(ctx, domain.MonthlyBudget{
			Year:              year,
			Month:             month,
			ExpenseCategoryID: b.ExpenseCategoryID,
			BudgetAmount:      b.BudgetAmount,
		}); err != nil {
			return 0, fmt.Errorf("failed to copy budget for category %d: %w", b.ExpenseCategoryID, err)
		}
	}

	logger.Info("Previous month budgets copied",
		slog.Int("from_year", prevYear), slog.Int("from_month", prevMonth),
		slog.Int("to_year", year), slog.Int("to_month", month),
		slog.Int("count", len(previous)))
	return len(previous), nil
}

// ApplyAdjustment persists a remaining-balance correction for one
// category/month. It never touches budget_amount or creates a transaction.
func (s *budgetService) ApplyAdjustment(ctx context.Context, req dto.BudgetAdjustmentRequest) (*domain.BudgetAdjustment, error) {
	if err := validateYearMonth(req.Year, req.Month); err != nil {
		return nil, err
	}
	if req.AdjustmentAmount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount must not be zero", apperrors.ErrValidation)
	}
	if _, err := s.categoryRepo.FindExpenseCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, fmt.Errorf("expense category %d: %w", req.CategoryID, err)
	}

	return s.budgetRepo.SaveAdjustment(ctx, domain.BudgetAdjustment{
		Year:              req.Year,
		Month:             req.Month,
		ExpenseCategoryID: req.CategoryID,
		AdjustmentAmount:  req.AdjustmentAmount,
		Description:       req.Description,
	})
}
