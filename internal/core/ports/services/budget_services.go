package services

import (
	"context"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/sasatake/kakeibo_backend/internal/dto"
)

// BudgetSvcFacade is the budget aggregator contract.
type BudgetSvcFacade interface {
	GetMonthlySummary(ctx context.Context, year, month int) (*domain.MonthlySummary, error)
	SetBudget(ctx context.Context, req dto.SaveBudgetRequest) (*domain.MonthlyBudget, error)
	ListBudgets(ctx context.Context, year, month int) ([]domain.MonthlyBudget, error)

	// CopyPreviousMonth upserts the previous calendar month's budgets into
	// (year, month) and returns how many rows were copied. An empty previous
	// month returns apperrors.ErrNotFound and writes nothing.
	CopyPreviousMonth(ctx context.Context, year, month int) (int, error)

	ApplyAdjustment(ctx context.Context, req dto.BudgetAdjustmentRequest) (*domain.BudgetAdjustment, error)
}
