package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/core/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func int64Ptr(v int64) *int64 { return &v }

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockCategoryRepo *MockCategoryRepository
	service          portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.service = services.NewLedgerService(suite.mockTxnRepo, suite.mockCategoryRepo)
}

func (suite *LedgerServiceTestSuite) expectExpenseCategory(id int64) {
	suite.mockCategoryRepo.On("FindExpenseCategoryByID", mock.Anything, id).
		Return(&domain.ExpenseCategory{ID: id, Name: "食費"}, nil)
}

func (suite *LedgerServiceTestSuite) expectWallet(id int64) {
	suite.mockCategoryRepo.On("FindWalletCategoryByID", mock.Anything, id).
		Return(&domain.WalletCategory{ID: id, Name: "現金", Balance: decimal.NewFromInt(10000)}, nil)
}

func (suite *LedgerServiceTestSuite) expectCredit(id int64) {
	suite.mockCategoryRepo.On("FindCreditCategoryByID", mock.Anything, id).
		Return(&domain.CreditCategory{ID: id, Name: "メインカード"}, nil)
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestCreateTransaction_ExpenseFromWallet() {
	ctx := context.Background()
	suite.expectExpenseCategory(1)
	suite.expectWallet(5)

	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(&domain.Transaction{ID: 42, Type: domain.TypeExpense}, nil).Once()

	created, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(300),
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(int64(42), created.ID)
	suite.Len(capturedEffect.WalletDeltas, 1)
	suite.True(capturedEffect.WalletDeltas[5].Equal(decimal.NewFromInt(-300)))
	suite.Empty(capturedEffect.CreditDeltas)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_ExpenseOnCreditAccruesIntoMonth() {
	ctx := context.Background()
	suite.expectExpenseCategory(1)
	suite.expectCredit(3)

	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(&domain.Transaction{ID: 7, Type: domain.TypeExpense}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(1200),
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		CreditCategoryID:  int64Ptr(3),
	})

	suite.Require().NoError(err)
	suite.Empty(capturedEffect.WalletDeltas)
	key := domain.CreditMonth{CreditCategoryID: 3, Year: 2025, Month: 3}
	suite.True(capturedEffect.CreditDeltas[key].Equal(decimal.NewFromInt(1200)))
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_WithdrawalTransferOnlyDebitsSource() {
	ctx := context.Background()
	suite.expectWallet(5)

	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(&domain.Transaction{ID: 8, Type: domain.TypeTransfer}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:                 "2025-03-10",
		Amount:               decimal.NewFromInt(5000),
		Type:                 "transfer",
		TransferFromWalletID: int64Ptr(5),
		TransferToWalletID:   &dto.TransferTarget{Withdrawal: true},
	})

	suite.Require().NoError(err)
	suite.Len(capturedEffect.WalletDeltas, 1)
	suite.True(capturedEffect.WalletDeltas[5].Equal(decimal.NewFromInt(-5000)))
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_SelfTransferRejected() {
	ctx := context.Background()
	suite.expectWallet(5)

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:                 "2025-03-10",
		Amount:               decimal.NewFromInt(5000),
		Type:                 "transfer",
		TransferFromWalletID: int64Ptr(5),
		TransferToWalletID:   &dto.TransferTarget{WalletID: int64Ptr(5)},
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrSelfTransfer)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_NonPositiveAmountRejected() {
	ctx := context.Background()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.Zero,
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrAmountNotPositive)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_BothPaymentMethodsRejected() {
	ctx := context.Background()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(300),
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
		CreditCategoryID:  int64Ptr(3),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPaymentMethodMissing)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_UnknownWalletRejected() {
	ctx := context.Background()
	suite.expectExpenseCategory(1)
	suite.mockCategoryRepo.On("FindWalletCategoryByID", mock.Anything, int64(99)).
		Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(300),
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(99),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_ChargeFromWallet() {
	ctx := context.Background()
	suite.expectWallet(2)
	suite.expectWallet(6)

	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(&domain.Transaction{ID: 9, Type: domain.TypeCharge}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:               "2025-03-10",
		Amount:             decimal.NewFromInt(3000),
		Type:               "charge",
		ChargeFromWalletID: int64Ptr(2),
		ChargeToWalletID:   int64Ptr(6),
	})

	suite.Require().NoError(err)
	suite.True(capturedEffect.WalletDeltas[2].Equal(decimal.NewFromInt(-3000)))
	suite.True(capturedEffect.WalletDeltas[6].Equal(decimal.NewFromInt(3000)))
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_BudgetTransferHasNoEffect() {
	ctx := context.Background()
	suite.expectExpenseCategory(1)
	suite.mockCategoryRepo.On("FindExpenseCategoryByID", mock.Anything, int64(2)).
		Return(&domain.ExpenseCategory{ID: 2, Name: "日用品"}, nil)

	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(&domain.Transaction{ID: 10, Type: domain.TypeBudgetTransfer}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:                 "2025-03-10",
		Amount:               decimal.NewFromInt(2000),
		Type:                 "budget_transfer",
		BudgetFromCategoryID: int64Ptr(1),
		BudgetToCategoryID:   int64Ptr(2),
	})

	suite.Require().NoError(err)
	suite.True(capturedEffect.IsEmpty())
}

func (suite *LedgerServiceTestSuite) TestUpdateTransaction_IdenticalPayloadMergesToEmpty() {
	ctx := context.Background()
	suite.expectExpenseCategory(1)
	suite.expectWallet(5)

	existing := &domain.Transaction{
		ID:                4,
		Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:            decimal.NewFromInt(300),
		Type:              domain.TypeExpense,
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
		CreatedAt:         time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(4)).Return(existing, nil).Once()

	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(existing, nil).Once()

	_, err := suite.service.UpdateTransaction(ctx, 4, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(300),
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
	})

	suite.Require().NoError(err)
	suite.True(capturedEffect.IsEmpty())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestUpdateTransaction_AmountChangeAppliesDifference() {
	ctx := context.Background()
	suite.expectExpenseCategory(1)
	suite.expectWallet(5)

	existing := &domain.Transaction{
		ID:                4,
		Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:            decimal.NewFromInt(300),
		Type:              domain.TypeExpense,
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(4)).Return(existing, nil).Once()

	var capturedTxn domain.Transaction
	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedTxn = args.Get(1).(domain.Transaction)
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(existing, nil).Once()

	_, err := suite.service.UpdateTransaction(ctx, 4, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(500),
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
	})

	suite.Require().NoError(err)
	suite.Equal(int64(4), capturedTxn.ID)
	// +300 from reversing the old expense, -500 for the new one.
	suite.True(capturedEffect.WalletDeltas[5].Equal(decimal.NewFromInt(-200)))
}

func (suite *LedgerServiceTestSuite) TestDeleteTransaction_ReversesOriginalEffect() {
	ctx := context.Background()

	existing := &domain.Transaction{
		ID:                4,
		Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:            decimal.NewFromInt(300),
		Type:              domain.TypeExpense,
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(4)).Return(existing, nil).Once()

	var capturedEffect domain.Effect
	suite.mockTxnRepo.On("DeleteTransaction", ctx, int64(4), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedEffect = args.Get(2).(domain.Effect)
		}).
		Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, 4)

	suite.Require().NoError(err)
	suite.True(capturedEffect.WalletDeltas[5].Equal(decimal.NewFromInt(300)))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteTransaction_NotFound() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(404)).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTransaction(ctx, 404)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_ItemsFiltered() {
	ctx := context.Background()
	suite.expectExpenseCategory(1)
	suite.expectWallet(5)

	var capturedTxn domain.Transaction
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.Effect")).
		Run(func(args mock.Arguments) {
			capturedTxn = args.Get(1).(domain.Transaction)
		}).
		Return(&domain.Transaction{ID: 11, Type: domain.TypeExpense}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(500),
		Type:              "expense",
		ExpenseCategoryID: int64Ptr(1),
		WalletCategoryID:  int64Ptr(5),
		Items: []dto.TransactionItemPayload{
			{Name: "牛乳", Amount: decimal.NewFromInt(200)},
			{Name: "", Amount: decimal.NewFromInt(100)},
			{Name: "パン", Amount: decimal.Zero},
		},
	})

	suite.Require().NoError(err)
	suite.Require().Len(capturedTxn.Items, 1)
	suite.Equal("牛乳", capturedTxn.Items[0].Name)
}

func (suite *LedgerServiceTestSuite) TestListTransactionsByDate_InvalidDate() {
	ctx := context.Background()

	_, err := suite.service.ListTransactionsByDate(ctx, "10-03-2025")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestSuggestPaymentLocations() {
	ctx := context.Background()
	suite.mockTxnRepo.On("ListPaymentLocations", ctx, "スー", 20).
		Return([]string{"スーパーA", "スーパーB"}, nil).Once()

	locations, err := suite.service.SuggestPaymentLocations(ctx, "スー")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"スーパーA", "スーパーB"}, locations)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
