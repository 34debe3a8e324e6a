package services_test

import (
	"context"
	"time"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock type for the CategoryRepositoryFacade interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListWalletCategories(ctx context.Context) ([]domain.WalletCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalletCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListCreditCategories(ctx context.Context) ([]domain.CreditCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindExpenseCategoryByID(ctx context.Context, id int64) (*domain.ExpenseCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindWalletCategoryByID(ctx context.Context, id int64) (*domain.WalletCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindCreditCategoryByID(ctx context.Context, id int64) (*domain.CreditCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditCategory), args.Error(1)
}

func (m *MockCategoryRepository) CreateCategory(ctx context.Context, kind domain.CategoryKind, name string) (int64, error) {
	args := m.Called(ctx, kind, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) RenameCategory(ctx context.Context, kind domain.CategoryKind, id int64, name string) error {
	args := m.Called(ctx, kind, id, name)
	return args.Error(0)
}

func (m *MockCategoryRepository) OverrideWalletBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error) {
	args := m.Called(ctx, txn, effect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, effect domain.Effect) (*domain.Transaction, error) {
	args := m.Called(ctx, txn, effect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, id int64, effect domain.Effect) error {
	args := m.Called(ctx, id, effect)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByDate(ctx context.Context, date time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListPaymentLocations(ctx context.Context, search string, limit int) ([]string, error) {
	args := m.Called(ctx, search, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockBudgetRepository is a mock type for the BudgetRepositoryFacade interface
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) UpsertBudget(ctx context.Context, budget domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	args := m.Called(ctx, budget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyBudget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, year, month int) ([]domain.MonthlyBudget, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyBudget), args.Error(1)
}

func (m *MockBudgetRepository) SaveAdjustment(ctx context.Context, adj domain.BudgetAdjustment) (*domain.BudgetAdjustment, error) {
	args := m.Called(ctx, adj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetAdjustment), args.Error(1)
}

func (m *MockBudgetRepository) SumExpensesByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) SumAdjustmentsByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) SumBudgetTransfersByCategory(ctx context.Context, year, month int) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) ListCreditSummaries(ctx context.Context, year, month int) ([]domain.MonthlyCreditSummary, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyCreditSummary), args.Error(1)
}
