package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// categoryService implements the category store.
type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates the category store service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	return s.categoryRepo.ListExpenseCategories(ctx)
}

func (s *categoryService) ListWalletCategories(ctx context.Context) ([]domain.WalletCategory, error) {
	return s.categoryRepo.ListWalletCategories(ctx)
}

func (s *categoryService) ListCreditCategories(ctx context.Context) ([]domain.CreditCategory, error) {
	return s.categoryRepo.ListCreditCategories(ctx)
}

func (s *categoryService) CreateCategory(ctx context.Context, kind domain.CategoryKind, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: category name must not be empty", apperrors.ErrValidation)
	}
	id, err := s.categoryRepo.CreateCategory(ctx, kind, name)
	if err != nil {
		return 0, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Category created",
		slog.String("kind", string(kind)), slog.Int64("category_id", id), slog.String("name", name))
	return id, nil
}

func (s *categoryService) RenameCategory(ctx context.Context, kind domain.CategoryKind, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name must not be empty", apperrors.ErrValidation)
	}
	return s.categoryRepo.RenameCategory(ctx, kind, id, name)
}

// OverrideWalletBalance sets a wallet balance directly for reconciliation.
// No effect bookkeeping happens here; the new balance is taken as truth.
func (s *categoryService) OverrideWalletBalance(ctx context.Context, walletID int64, balance decimal.Decimal) (*domain.WalletCategory, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	wallet, err := s.categoryRepo.FindWalletCategoryByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.OverrideWalletBalance(ctx, walletID, balance); err != nil {
		return nil, fmt.Errorf("failed to override wallet balance: %w", err)
	}

	logger.Info("Wallet balance overridden",
		slog.Int64("wallet_id", walletID),
		slog.String("previous", wallet.Balance.String()),
		slog.String("balance", balance.String()))

	wallet.Balance = balance
	return wallet, nil
}
