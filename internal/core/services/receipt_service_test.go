package services_test

import (
	"context"
	"testing"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/core/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockReceiptAnalyzer is a mock type for the ReceiptAnalyzer interface
type MockReceiptAnalyzer struct {
	mock.Mock
}

func (m *MockReceiptAnalyzer) Analyze(ctx context.Context, image []byte) (*domain.ReceiptAnalysis, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptAnalysis), args.Error(1)
}

// MockLedgerService is a mock type for the LedgerSvcFacade interface
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

// --- Test Suite Setup ---

type ReceiptServiceTestSuite struct {
	suite.Suite
	mockAnalyzer *MockReceiptAnalyzer
	mockLedger   *MockLedgerService
	service      portssvc.ReceiptSvcFacade
}

func (suite *ReceiptServiceTestSuite) SetupTest() {
	suite.mockAnalyzer = new(MockReceiptAnalyzer)
	suite.mockLedger = new(MockLedgerService)
	suite.service = services.NewReceiptService(suite.mockAnalyzer, suite.mockLedger)
}

// --- Test Cases ---

func (suite *ReceiptServiceTestSuite) TestAnalyzeReceipt_FiltersNonItems() {
	ctx := context.Background()
	image := []byte("jpeg-bytes")

	suite.mockAnalyzer.On("Analyze", ctx, image).Return(&domain.ReceiptAnalysis{
		StoreName:   "マルエツ",
		Date:        "2025-03-10",
		TotalAmount: decimal.NewFromInt(1080),
		Items: []domain.ReceiptItem{
			{Name: "牛乳", Amount: decimal.NewFromInt(238)},
			{Name: "マルエツ", Amount: decimal.NewFromInt(1080)},        // store name echoed as a line
			{Name: "小計", Amount: decimal.NewFromInt(1000)},          // summary row
			{Name: "ポイント", Amount: decimal.Zero},                    // zero amount
			{Name: "12345", Amount: decimal.NewFromInt(100)},        // product code
			{Name: "あ", Amount: decimal.NewFromInt(100)},            // single character
			{Name: "食パン", Amount: decimal.NewFromInt(158)},
		},
	}, nil).Once()

	analysis, err := suite.service.AnalyzeReceipt(ctx, image)

	suite.Require().NoError(err)
	suite.Require().Len(analysis.Items, 2)
	suite.Equal("牛乳", analysis.Items[0].Name)
	suite.Equal("食パン", analysis.Items[1].Name)
	suite.Equal("マルエツ", analysis.StoreName)
}

func (suite *ReceiptServiceTestSuite) TestAnalyzeReceipt_AnalyzerNotConfigured() {
	ctx := context.Background()
	svc := services.NewReceiptService(nil, suite.mockLedger)

	_, err := svc.AnalyzeReceipt(ctx, []byte("jpeg-bytes"))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAnalyzerUnavailable)
}

func (suite *ReceiptServiceTestSuite) TestAnalyzeReceipt_AnalyzerError() {
	ctx := context.Background()
	image := []byte("jpeg-bytes")
	suite.mockAnalyzer.On("Analyze", ctx, image).Return(nil, assert.AnError).Once()

	_, err := suite.service.AnalyzeReceipt(ctx, image)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ReceiptServiceTestSuite) TestCreateExpenseFromReceipt_GoesThroughLedger() {
	ctx := context.Background()

	var capturedReq dto.CreateTransactionRequest
	suite.mockLedger.On("CreateTransaction", ctx, mock.AnythingOfType("dto.CreateTransactionRequest")).
		Run(func(args mock.Arguments) {
			capturedReq = args.Get(1).(dto.CreateTransactionRequest)
		}).
		Return(&domain.Transaction{ID: 12, Type: domain.TypeExpense}, nil).Once()

	created, err := suite.service.CreateExpenseFromReceipt(ctx, dto.ReceiptTransactionRequest{
		Date:              "2025-03-10",
		Amount:            decimal.NewFromInt(1080),
		ExpenseCategoryID: 1,
		WalletCategoryID:  int64Ptr(5),
		StoreName:         "マルエツ",
		Items: []dto.TransactionItemPayload{
			{Name: "牛乳", Amount: decimal.NewFromInt(238)},
		},
	})

	suite.Require().NoError(err)
	suite.Equal(int64(12), created.ID)
	suite.Equal("expense", capturedReq.Type)
	suite.Require().NotNil(capturedReq.ExpenseCategoryID)
	suite.Equal(int64(1), *capturedReq.ExpenseCategoryID)
	// Store name doubles as payment location when none was given.
	suite.Equal("マルエツ", capturedReq.PaymentLocation)
	suite.Equal("マルエツ", capturedReq.Description)
	suite.Len(capturedReq.Items, 1)
}

func TestFilterReceiptItems_KeywordList(t *testing.T) {
	items := []domain.ReceiptItem{
		{Name: "Welcia Store", Amount: decimal.NewFromInt(500)},
		{Name: "TOTAL", Amount: decimal.NewFromInt(999)},
		{Name: "税込合計", Amount: decimal.NewFromInt(999)},
		{Name: "シャンプー", Amount: decimal.NewFromInt(498)},
	}

	filtered := services.FilterReceiptItems(items, "")

	assert.Len(t, filtered, 1)
	assert.Equal(t, "シャンプー", filtered[0].Name)
}

func TestReceiptServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptServiceTestSuite))
}
