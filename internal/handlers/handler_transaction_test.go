package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/handlers"
	"github.com/sasatake/kakeibo_backend/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CategoryService ---
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseCategory), args.Error(1)
}
func (m *MockCategoryService) ListWalletCategories(ctx context.Context) ([]domain.WalletCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalletCategory), args.Error(1)
}
func (m *MockCategoryService) ListCreditCategories(ctx context.Context) ([]domain.CreditCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditCategory), args.Error(1)
}
func (m *MockCategoryService) CreateCategory(ctx context.Context, kind domain.CategoryKind, name string) (int64, error) {
	args := m.Called(ctx, kind, name)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCategoryService) RenameCategory(ctx context.Context, kind domain.CategoryKind, id int64, name string) error {
	args := m.Called(ctx, kind, id, name)
	return args.Error(0)
}
func (m *MockCategoryService) OverrideWalletBalance(ctx context.Context, walletID int64, balance decimal.Decimal) (*domain.WalletCategory, error) {
	args := m.Called(ctx, walletID, balance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletCategory), args.Error(1)
}

var _ portssvc.CategorySvcFacade = (*MockCategoryService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) UpdateTransaction(ctx context.Context, id int64, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLedgerService) GetTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListTransactionsByDate(ctx context.Context, date string) ([]domain.Transaction, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) SuggestPaymentLocations(ctx context.Context, search string) ([]string, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) GetMonthlySummary(ctx context.Context, year, month int) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}
func (m *MockBudgetService) SetBudget(ctx context.Context, req dto.SaveBudgetRequest) (*domain.MonthlyBudget, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyBudget), args.Error(1)
}
func (m *MockBudgetService) ListBudgets(ctx context.Context, year, month int) ([]domain.MonthlyBudget, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyBudget), args.Error(1)
}
func (m *MockBudgetService) CopyPreviousMonth(ctx context.Context, year, month int) (int, error) {
	args := m.Called(ctx, year, month)
	return args.Int(0), args.Error(1)
}
func (m *MockBudgetService) ApplyAdjustment(ctx context.Context, req dto.BudgetAdjustmentRequest) (*domain.BudgetAdjustment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetAdjustment), args.Error(1)
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

// --- Mock ReceiptService ---
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) AnalyzeReceipt(ctx context.Context, image []byte) (*domain.ReceiptAnalysis, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptAnalysis), args.Error(1)
}
func (m *MockReceiptService) CreateExpenseFromReceipt(ctx context.Context, req dto.ReceiptTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.ReceiptSvcFacade = (*MockReceiptService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCategorySvc *MockCategoryService
	mockLedgerSvc   *MockLedgerService
	mockBudgetSvc   *MockBudgetService
	mockReceiptSvc  *MockReceiptService
}

func int64Ptr(v int64) *int64 { return &v }

// registerMonthValidator mirrors the binding rule main registers on startup.
func registerMonthValidator(t *testing.T) {
	t.Helper()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("validator engine unavailable")
	}
	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		m := fl.Field().Int()
		return m >= 1 && m <= 12
	})
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerMonthValidator(suite.T())

	suite.mockCategorySvc = new(MockCategoryService)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.mockBudgetSvc = new(MockBudgetService)
	suite.mockReceiptSvc = new(MockReceiptService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		Category: suite.mockCategorySvc,
		Ledger:   suite.mockLedgerSvc,
		Budget:   suite.mockBudgetSvc,
		Receipt:  suite.mockReceiptSvc,
	})
}

func (suite *TransactionHandlerTestSuite) performJSON(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	date, _ := time.Parse("2006-01-02", "2025-03-10")
	expected := &domain.Transaction{
		ID:                1,
		Date:              date,
		Amount:            decimal.NewFromInt(450),
		Type:              domain.TypeExpense,
		ExpenseCategoryID: int64Ptr(2),
		WalletCategoryID:  int64Ptr(5),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	suite.mockLedgerSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return req.Type == "expense" && req.Date == "2025-03-10"
	})).Return(expected, nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/transactions", gin.H{
		"date":                "2025-03-10",
		"amount":              450,
		"type":                "expense",
		"expense_category_id": 2,
		"wallet_category_id":  5,
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(1), resp.ID)
	suite.Equal("expense", resp.Type)
	suite.Equal("2025-03-10", resp.Date)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_WithdrawalSentinel() {
	date, _ := time.Parse("2006-01-02", "2025-03-10")
	expected := &domain.Transaction{
		ID:                   2,
		Date:                 date,
		Amount:               decimal.NewFromInt(10000),
		Type:                 domain.TypeTransfer,
		TransferFromWalletID: int64Ptr(1),
	}
	suite.mockLedgerSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return req.TransferToWalletID != nil && req.TransferToWalletID.Withdrawal
	})).Return(expected, nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/transactions", gin.H{
		"date":                    "2025-03-10",
		"amount":                  10000,
		"type":                    "transfer",
		"transfer_from_wallet_id": 1,
		"transfer_to_wallet_id":   "withdrawal",
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_ValidationErrorReturns400() {
	suite.mockLedgerSvc.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(400, "transfer source and destination must differ", apperrors.ErrValidation)).Once()

	w := suite.performJSON(http.MethodPost, "/api/transactions", gin.H{
		"date":                    "2025-03-10",
		"amount":                  100,
		"type":                    "transfer",
		"transfer_from_wallet_id": 1,
		"transfer_to_wallet_id":   1,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MalformedDateRejectedByBinding() {
	w := suite.performJSON(http.MethodPost, "/api/transactions", gin.H{
		"date":   "10-03-2025",
		"amount": 100,
		"type":   "expense",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockLedgerSvc.On("GetTransactionByID", mock.Anything, int64(99)).
		Return(nil, apperrors.NewNotFoundError("transaction 99 not found")).Once()

	w := suite.performJSON(http.MethodGet, "/api/transactions/99", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_InvalidID() {
	w := suite.performJSON(http.MethodGet, "/api/transactions/abc", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "GetTransactionByID", mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_InvalidDate() {
	suite.mockLedgerSvc.On("ListTransactionsByDate", mock.Anything, "not-a-date").
		Return(nil, apperrors.NewAppError(400, "invalid date", apperrors.ErrValidation)).Once()

	w := suite.performJSON(http.MethodGet, "/api/transactions/date/not-a-date", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_Success() {
	date, _ := time.Parse("2006-01-02", "2025-03-10")
	txns := []domain.Transaction{
		{ID: 1, Date: date, Amount: decimal.NewFromInt(450), Type: domain.TypeExpense},
		{ID: 2, Date: date, Amount: decimal.NewFromInt(1200), Type: domain.TypeIncome},
	}
	suite.mockLedgerSvc.On("ListTransactionsByDate", mock.Anything, "2025-03-10").Return(txns, nil).Once()

	w := suite.performJSON(http.MethodGet, "/api/transactions/date/2025-03-10", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestDeleteTransaction_Success() {
	suite.mockLedgerSvc.On("DeleteTransaction", mock.Anything, int64(7)).Return(nil).Once()

	w := suite.performJSON(http.MethodDelete, "/api/transactions/7", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListPaymentLocations() {
	suite.mockLedgerSvc.On("SuggestPaymentLocations", mock.Anything, "マル").
		Return([]string{"マルエツ 東長崎店"}, nil).Once()

	w := suite.performJSON(http.MethodGet, "/api/payment-locations?search=マル", nil)

	suite.Equal(http.StatusOK, w.Code)
	var locations []string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &locations))
	suite.Equal([]string{"マルエツ 東長崎店"}, locations)
}

func (suite *TransactionHandlerTestSuite) TestOverrideWalletBalance_Success() {
	wallet := &domain.WalletCategory{ID: 3, Name: "財布", Balance: decimal.NewFromInt(12345)}
	suite.mockCategorySvc.On("OverrideWalletBalance", mock.Anything, int64(3), mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(12345))
	})).Return(wallet, nil).Once()

	w := suite.performJSON(http.MethodPut, "/api/wallets/3/balance", gin.H{"balance": 12345})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockCategorySvc.AssertExpectations(suite.T())
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
