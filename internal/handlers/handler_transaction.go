package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
)

// transactionHandler handles HTTP requests for ledger transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

// registerTransactionRoutes registers the transaction CRUD routes and the
// payment location autocomplete.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("/date/:date", h.listTransactionsByDate)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}

	rg.GET("/payment-locations", h.listPaymentLocations)
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records a ledger transaction and applies its wallet/credit side effects atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 404 {object} map[string]string "Referenced category not found"
// @Router /api/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.ledgerService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondTransactionError(c, logger, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(created))
}

// listTransactionsByDate godoc
// @Summary List transactions on a day
// @Tags transactions
// @Produce json
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Router /api/transactions/date/{date} [get]
func (h *transactionHandler) listTransactionsByDate(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	txns, err := h.ledgerService.ListTransactionsByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondTransactionError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// getTransaction godoc
// @Summary Get one transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /api/transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		respondTransactionError(c, logger, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Replace a transaction
// @Description Replaces a transaction under its existing id; previous side effects are reversed and the replacement's applied
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param transaction body dto.CreateTransactionRequest true "Replacement transaction"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /api/transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.ledgerService.UpdateTransaction(c.Request.Context(), id, req)
	if err != nil {
		respondTransactionError(c, logger, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(updated))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction and reverses its wallet/credit side effects
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /api/transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondTransactionError(c, logger, err, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// listPaymentLocations godoc
// @Summary Suggest payment locations
// @Description Returns distinct historical payment locations for autocomplete, most recently used first
// @Tags transactions
// @Produce json
// @Param search query string false "Substring filter"
// @Success 200 {array} string
// @Router /api/payment-locations [get]
func (h *transactionHandler) listPaymentLocations(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	locations, err := h.ledgerService.SuggestPaymentLocations(c.Request.Context(), c.Query("search"))
	if err != nil {
		logger.Error("Failed to list payment locations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func respondTransactionError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
