package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
)

var (
	ErrAmountNotPositive    = errors.New("transaction amount must be positive")
	ErrUnknownType          = errors.New("unknown transaction type")
	ErrPaymentMethodMissing = errors.New("exactly one payment method must be given")
	ErrSelfTransfer         = errors.New("transfer source and destination wallets must differ")
	ErrSelfBudgetTransfer   = errors.New("budget transfer source and destination categories must differ")
)

const paymentLocationLimit = 20

// ledgerService implements the ledger engine: validation, effect computation
// and the reverse-then-apply lifecycle for edits and deletes.
type ledgerService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewLedgerService creates the ledger engine service.
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{txnRepo: txnRepo, categoryRepo: categoryRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// buildTransaction validates the payload and maps it onto a domain
// transaction populating only the fields relevant to its type.
func (s *ledgerService) buildTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	txnType := domain.TransactionType(req.Type)
	if !txnType.Valid() {
		return nil, fmt.Errorf("%w: %w %q", apperrors.ErrValidation, ErrUnknownType, req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	txn := &domain.Transaction{
		Date:            date,
		Amount:          req.Amount,
		Type:            txnType,
		Description:     req.Description,
		Memo:            req.Memo,
		PaymentLocation: req.PaymentLocation,
		Notes:           req.Notes,
	}

	switch txnType {
	case domain.TypeExpense:
		if req.ExpenseCategoryID == nil {
			return nil, fmt.Errorf("%w: expense_category_id is required for expenses", apperrors.ErrValidation)
		}
		if (req.WalletCategoryID == nil) == (req.CreditCategoryID == nil) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPaymentMethodMissing)
		}
		if err := s.checkExpenseCategory(ctx, *req.ExpenseCategoryID); err != nil {
			return nil, err
		}
		txn.ExpenseCategoryID = req.ExpenseCategoryID
		if req.WalletCategoryID != nil {
			if err := s.checkWallet(ctx, *req.WalletCategoryID); err != nil {
				return nil, err
			}
			txn.WalletCategoryID = req.WalletCategoryID
		} else {
			if err := s.checkCredit(ctx, *req.CreditCategoryID); err != nil {
				return nil, err
			}
			txn.CreditCategoryID = req.CreditCategoryID
		}
		for _, item := range req.Items {
			if item.Name == "" || !item.Amount.IsPositive() {
				continue
			}
			if item.ExpenseCategoryID != nil {
				if err := s.checkExpenseCategory(ctx, *item.ExpenseCategoryID); err != nil {
					return nil, err
				}
			}
			txn.Items = append(txn.Items, domain.TransactionItem{
				Name:              item.Name,
				Amount:            item.Amount,
				ExpenseCategoryID: item.ExpenseCategoryID,
			})
		}

	case domain.TypeIncome:
		if req.WalletCategoryID == nil {
			return nil, fmt.Errorf("%w: wallet_category_id is required for income", apperrors.ErrValidation)
		}
		if err := s.checkWallet(ctx, *req.WalletCategoryID); err != nil {
			return nil, err
		}
		txn.WalletCategoryID = req.WalletCategoryID

	case domain.TypeTransfer:
		if req.TransferFromWalletID == nil || req.TransferToWalletID == nil {
			return nil, fmt.Errorf("%w: transfer requires a source and a destination", apperrors.ErrValidation)
		}
		if err := s.checkWallet(ctx, *req.TransferFromWalletID); err != nil {
			return nil, err
		}
		txn.TransferFromWalletID = req.TransferFromWalletID
		if !req.TransferToWalletID.Withdrawal {
			toID := req.TransferToWalletID.WalletID
			if toID == nil {
				return nil, fmt.Errorf("%w: invalid transfer destination", apperrors.ErrValidation)
			}
			if *toID == *req.TransferFromWalletID {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSelfTransfer)
			}
			if err := s.checkWallet(ctx, *toID); err != nil {
				return nil, err
			}
			txn.TransferToWalletID = toID
		}

	case domain.TypeCharge:
		if req.ChargeToWalletID == nil {
			return nil, fmt.Errorf("%w: charge_to_wallet_id is required for charges", apperrors.ErrValidation)
		}
		if (req.ChargeFromWalletID == nil) == (req.ChargeFromCreditID == nil) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPaymentMethodMissing)
		}
		if err := s.checkWallet(ctx, *req.ChargeToWalletID); err != nil {
			return nil, err
		}
		txn.ChargeToWalletID = req.ChargeToWalletID
		if req.ChargeFromWalletID != nil {
			if err := s.checkWallet(ctx, *req.ChargeFromWalletID); err != nil {
				return nil, err
			}
			txn.ChargeFromWalletID = req.ChargeFromWalletID
		} else {
			if err := s.checkCredit(ctx, *req.ChargeFromCreditID); err != nil {
				return nil, err
			}
			txn.ChargeFromCreditID = req.ChargeFromCreditID
		}

	case domain.TypeBudgetTransfer:
		if req.BudgetFromCategoryID == nil || req.BudgetToCategoryID == nil {
			return nil, fmt.Errorf("%w: budget transfer requires a source and a destination category", apperrors.ErrValidation)
		}
		if *req.BudgetFromCategoryID == *req.BudgetToCategoryID {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSelfBudgetTransfer)
		}
		if err := s.checkExpenseCategory(ctx, *req.BudgetFromCategoryID); err != nil {
			return nil, err
		}
		if err := s.checkExpenseCategory(ctx, *req.BudgetToCategoryID); err != nil {
			return nil, err
		}
		txn.BudgetFromCategoryID = req.BudgetFromCategoryID
		txn.BudgetToCategoryID = req.BudgetToCategoryID
	}

	return txn, nil
}

func (s *ledgerService) checkExpenseCategory(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.FindExpenseCategoryByID(ctx, id); err != nil {
		return fmt.Errorf("expense category %d: %w", id, err)
	}
	return nil
}

func (s *ledgerService) checkWallet(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.FindWalletCategoryByID(ctx, id); err != nil {
		return fmt.Errorf("wallet %d: %w", id, err)
	}
	return nil
}

func (s *ledgerService) checkCredit(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.FindCreditCategoryByID(ctx, id); err != nil {
		return fmt.Errorf("credit category %d: %w", id, err)
	}
	return nil
}

// CreateTransaction validates the payload, computes its side effect and
// persists both atomically.
func (s *ledgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.buildTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	saved, err := s.txnRepo.SaveTransaction(ctx, *txn, domain.EffectOf(txn))
	if err != nil {
		logger.Error("Failed to save transaction", slog.String("type", req.Type), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created", slog.Int64("transaction_id", saved.ID), slog.String("type", req.Type))
	return saved, nil
}

// UpdateTransaction replaces a transaction under its existing identity.
// The previous side effect is reversed and the replacement's applied in one
// storage transaction, so an edit behaves exactly like delete-then-recreate
// while keeping id and created_at.
func (s *ledgerService) UpdateTransaction(ctx context.Context, id int64, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	replacement, err := s.buildTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	replacement.ID = existing.ID
	replacement.CreatedAt = existing.CreatedAt

	merged := domain.EffectOf(existing).Invert().Merge(domain.EffectOf(replacement))

	updated, err := s.txnRepo.UpdateTransaction(ctx, *replacement, merged)
	if err != nil {
		logger.Error("Failed to update transaction", slog.Int64("transaction_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	logger.Info("Transaction updated", slog.Int64("transaction_id", id))
	return updated, nil
}

// DeleteTransaction reverses the transaction's side effect and removes the
// row and its items.
func (s *ledgerService) DeleteTransaction(ctx context.Context, id int64) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.txnRepo.DeleteTransaction(ctx, id, domain.EffectOf(existing).Invert()); err != nil {
		logger.Error("Failed to delete transaction", slog.Int64("transaction_id", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	logger.Info("Transaction deleted", slog.Int64("transaction_id", id))
	return nil
}

// GetTransactionByID retrieves one transaction with joined names and items.
func (s *ledgerService) GetTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, id)
}

// ListTransactionsByDate retrieves all transactions on a calendar day.
func (s *ledgerService) ListTransactionsByDate(ctx context.Context, date string) ([]domain.Transaction, error) {
	day, err := time.Parse(dto.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, date)
	}
	return s.txnRepo.ListTransactionsByDate(ctx, day)
}

// SuggestPaymentLocations returns autocomplete candidates from historical
// payment_location values.
func (s *ledgerService) SuggestPaymentLocations(ctx context.Context, search string) ([]string, error) {
	return s.txnRepo.ListPaymentLocations(ctx, search, paymentLocationLimit)
}
