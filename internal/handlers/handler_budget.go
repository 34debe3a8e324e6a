package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
)

// budgetHandler handles HTTP requests for monthly summaries, budgets and
// budget adjustments.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	rg.GET("/summary/:year/:month", h.getMonthlySummary)

	budgets := rg.Group("/budgets")
	{
		budgets.GET("/:year/:month", h.listBudgets)
		budgets.POST("", h.saveBudget)
		budgets.POST("/copy-previous", h.copyPreviousMonth)
	}

	rg.POST("/budget-adjustments", h.applyAdjustment)
}

// parseMonthParams reads the :year/:month path segments. It writes a 400 and
// returns ok=false when either is not an integer; range checks are left to
// the service.
func parseMonthParams(c *gin.Context) (year, month int, ok bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
		return 0, 0, false
	}
	month, err = strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month parameter"})
		return 0, 0, false
	}
	return year, month, true
}

// getMonthlySummary godoc
// @Summary Monthly spending summary
// @Description Returns per-category expense totals against budgets plus per-card credit totals for one month
// @Tags budgets
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} dto.MonthlySummaryResponse
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Router /api/summary/{year}/{month} [get]
func (h *budgetHandler) getMonthlySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	year, month, ok := parseMonthParams(c)
	if !ok {
		return
	}

	summary, err := h.budgetService.GetMonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		respondBudgetError(c, logger, err, "Failed to build monthly summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToMonthlySummaryResponse(summary))
}

// listBudgets godoc
// @Summary List budgets for a month
// @Tags budgets
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {array} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Router /api/budgets/{year}/{month} [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	year, month, ok := parseMonthParams(c)
	if !ok {
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), year, month)
	if err != nil {
		respondBudgetError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponses(budgets))
}

// saveBudget godoc
// @Summary Set a category budget
// @Description Creates or replaces one category's budget for a month
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body dto.SaveBudgetRequest true "Budget"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Router /api/budgets [post]
func (h *budgetHandler) saveBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.SaveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for saveBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	budget, err := h.budgetService.SetBudget(c.Request.Context(), req)
	if err != nil {
		respondBudgetError(c, logger, err, "Failed to save budget")
		return
	}
	c.JSON(http.StatusOK, dto.BudgetResponse{
		ID:                budget.ID,
		Year:              budget.Year,
		Month:             budget.Month,
		ExpenseCategoryID: budget.ExpenseCategoryID,
		BudgetAmount:      budget.BudgetAmount,
	})
}

type copyPreviousRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,month"`
}

// copyPreviousMonth godoc
// @Summary Copy last month's budgets
// @Description Copies every budget row from the previous calendar month into the given month, overwriting existing rows
// @Tags budgets
// @Accept json
// @Produce json
// @Param target body handlers.copyPreviousRequest true "Target month"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string "Previous month has no budgets"
// @Router /api/budgets/copy-previous [post]
func (h *budgetHandler) copyPreviousMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req copyPreviousRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for copyPreviousMonth", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	copied, err := h.budgetService.CopyPreviousMonth(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		respondBudgetError(c, logger, err, "Failed to copy previous month's budgets")
		return
	}
	logger.Info("Copied previous month's budgets",
		slog.Int("year", req.Year), slog.Int("month", req.Month), slog.Int("copied", copied))
	c.JSON(http.StatusOK, gin.H{"copied": copied})
}

// applyAdjustment godoc
// @Summary Record a budget adjustment
// @Description Records a one-off correction to a category's remaining budget for a month
// @Tags budgets
// @Accept json
// @Produce json
// @Param adjustment body dto.BudgetAdjustmentRequest true "Adjustment"
// @Success 201 {object} map[string]int64
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Router /api/budget-adjustments [post]
func (h *budgetHandler) applyAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.BudgetAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for applyAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adjustment, err := h.budgetService.ApplyAdjustment(c.Request.Context(), req)
	if err != nil {
		respondBudgetError(c, logger, err, "Failed to apply budget adjustment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": adjustment.ID})
}

func respondBudgetError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
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
