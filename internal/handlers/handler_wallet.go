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

// walletHandler handles the wallet balance override endpoint.
type walletHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func registerWalletRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := &walletHandler{categoryService: categoryService}
	rg.PUT("/wallets/:id/balance", h.overrideBalance)
}

// overrideBalance godoc
// @Summary Override a wallet balance
// @Description Reconciles a wallet against reality by setting its balance directly, outside the ledger
// @Tags wallets
// @Accept json
// @Produce json
// @Param id path int true "Wallet category ID"
// @Param balance body dto.UpdateWalletBalanceRequest true "New balance"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Wallet not found"
// @Router /api/wallets/{id}/balance [put]
func (h *walletHandler) overrideBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateWalletBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for overrideBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	wallet, err := h.categoryService.OverrideWalletBalance(c.Request.Context(), id, req.Balance)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to override wallet balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to override wallet balance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": wallet.ID, "name": wallet.Name, "balance": wallet.Balance})
}
