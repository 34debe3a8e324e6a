package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/core/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
)

// maxReceiptImageBytes caps the multipart upload read; phone camera JPEGs
// land well under this after client-side compression.
const maxReceiptImageBytes = 20 << 20

// receiptHandler handles receipt analysis and receipt-backed expense entry.
type receiptHandler struct {
	receiptService portssvc.ReceiptSvcFacade
}

func registerReceiptRoutes(rg *gin.RouterGroup, receiptService portssvc.ReceiptSvcFacade) {
	h := &receiptHandler{receiptService: receiptService}
	rg.POST("/analyze-receipt", h.analyzeReceipt)
	rg.POST("/receipt-transactions", h.createReceiptTransaction)
}

// analyzeReceipt godoc
// @Summary Analyze a receipt photo
// @Description Runs OCR over an uploaded receipt image and returns the extracted store, date, total and product lines
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Receipt image"
// @Success 200 {object} dto.ReceiptAnalysisResponse
// @Failure 400 {object} map[string]string "Missing or unreadable image"
// @Failure 503 {object} map[string]string "OCR is not configured"
// @Router /api/analyze-receipt [post]
func (h *receiptHandler) analyzeReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receipt image file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded receipt image", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxReceiptImageBytes))
	if err != nil {
		logger.Error("Failed to read uploaded receipt image", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image"})
		return
	}

	analysis, err := h.receiptService.AnalyzeReceipt(c.Request.Context(), image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAnalyzerUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Receipt analysis is not configured"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to analyze receipt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze receipt"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptAnalysisResponse(analysis))
}

// createReceiptTransaction godoc
// @Summary Record an expense from a receipt
// @Description Records one itemized expense transaction from a confirmed receipt analysis
// @Tags receipts
// @Accept json
// @Produce json
// @Param transaction body dto.ReceiptTransactionRequest true "Confirmed receipt"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 404 {object} map[string]string "Referenced category not found"
// @Router /api/receipt-transactions [post]
func (h *receiptHandler) createReceiptTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.ReceiptTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createReceiptTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.receiptService.CreateExpenseFromReceipt(c.Request.Context(), req)
	if err != nil {
		respondTransactionError(c, logger, err, "Failed to record receipt transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(created))
}
