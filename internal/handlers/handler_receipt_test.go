package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/core/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/handlers"
	"github.com/sasatake/kakeibo_backend/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReceiptHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockReceiptSvc *MockReceiptService
}

func (suite *ReceiptHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerMonthValidator(suite.T())

	suite.mockReceiptSvc = new(MockReceiptService)
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		Category: new(MockCategoryService),
		Ledger:   new(MockLedgerService),
		Budget:   new(MockBudgetService),
		Receipt:  suite.mockReceiptSvc,
	})
}

func (suite *ReceiptHandlerTestSuite) performImageUpload(image []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("receipt", "receipt.jpg")
	suite.Require().NoError(err)
	_, err = part.Write(image)
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/analyze-receipt", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReceiptHandlerTestSuite) TestAnalyzeReceipt_Success() {
	analysis := &domain.ReceiptAnalysis{
		StoreName:         "マルエツ 東長崎店",
		Date:              "2025-03-10",
		TotalAmount:       decimal.NewFromInt(706),
		SuggestedCategory: "食費",
		Items: []domain.ReceiptItem{
			{Name: "牛乳", Amount: decimal.NewFromInt(238)},
			{Name: "食パン", Amount: decimal.NewFromInt(158)},
		},
	}
	suite.mockReceiptSvc.On("AnalyzeReceipt", mock.Anything, []byte("fake-jpeg")).Return(analysis, nil).Once()

	w := suite.performImageUpload([]byte("fake-jpeg"))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReceiptAnalysisResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("マルエツ 東長崎店", resp.StoreName)
	suite.Len(resp.Items, 2)
	suite.mockReceiptSvc.AssertExpectations(suite.T())
}

func (suite *ReceiptHandlerTestSuite) TestAnalyzeReceipt_MissingFile() {
	req, _ := http.NewRequest(http.MethodPost, "/api/analyze-receipt", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReceiptSvc.AssertNotCalled(suite.T(), "AnalyzeReceipt", mock.Anything, mock.Anything)
}

func (suite *ReceiptHandlerTestSuite) TestAnalyzeReceipt_AnalyzerUnavailable() {
	suite.mockReceiptSvc.On("AnalyzeReceipt", mock.Anything, mock.Anything).
		Return(nil, services.ErrAnalyzerUnavailable).Once()

	w := suite.performImageUpload([]byte("fake-jpeg"))

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *ReceiptHandlerTestSuite) TestCreateReceiptTransaction_Success() {
	expected := &domain.Transaction{ID: 11, Type: domain.TypeExpense, Amount: decimal.NewFromInt(706)}
	suite.mockReceiptSvc.On("CreateExpenseFromReceipt", mock.Anything, mock.MatchedBy(func(req dto.ReceiptTransactionRequest) bool {
		return req.StoreName == "マルエツ 東長崎店" && req.ExpenseCategoryID == 1
	})).Return(expected, nil).Once()

	w := func() *httptest.ResponseRecorder {
		payload, _ := json.Marshal(gin.H{
			"date":                "2025-03-10",
			"amount":              706,
			"expense_category_id": 1,
			"wallet_category_id":  5,
			"store_name":          "マルエツ 東長崎店",
			"items": []gin.H{
				{"name": "牛乳", "amount": 238},
				{"name": "食パン", "amount": 158},
			},
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/receipt-transactions", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		return w
	}()

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockReceiptSvc.AssertExpectations(suite.T())
}

func TestReceiptHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptHandlerTestSuite))
}
