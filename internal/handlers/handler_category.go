package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sasatake/kakeibo_backend/internal/apperrors"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/dto"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
)

// categoryHandler handles HTTP requests for the three category tables.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func newCategoryHandler(cs portssvc.CategorySvcFacade) *categoryHandler {
	return &categoryHandler{categoryService: cs}
}

// registerCategoryRoutes registers the category list/create/rename routes.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := newCategoryHandler(categoryService)

	rg.GET("/expense-categories", h.listExpenseCategories)
	rg.POST("/expense-categories", h.createCategory(domain.KindExpense))
	rg.PUT("/expense-categories/:id", h.renameCategory(domain.KindExpense))

	rg.GET("/wallet-categories", h.listWalletCategories)
	rg.POST("/wallet-categories", h.createCategory(domain.KindWallet))
	rg.PUT("/wallet-categories/:id", h.renameCategory(domain.KindWallet))

	rg.GET("/credit-categories", h.listCreditCategories)
	rg.POST("/credit-categories", h.createCategory(domain.KindCredit))
	rg.PUT("/credit-categories/:id", h.renameCategory(domain.KindCredit))
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// listExpenseCategories godoc
// @Summary List expense categories
// @Tags categories
// @Produce json
// @Success 200 {array} dto.ExpenseCategoryResponse
// @Router /api/expense-categories [get]
func (h *categoryHandler) listExpenseCategories(c *gin.Context) {
	categories, err := h.categoryService.ListExpenseCategories(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list expense categories", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expense categories"})
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseCategoryResponses(categories))
}

// listWalletCategories godoc
// @Summary List wallets with their current balances
// @Tags categories
// @Produce json
// @Success 200 {array} dto.WalletCategoryResponse
// @Router /api/wallet-categories [get]
func (h *categoryHandler) listWalletCategories(c *gin.Context) {
	categories, err := h.categoryService.ListWalletCategories(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list wallet categories", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list wallet categories"})
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletCategoryResponses(categories))
}

// listCreditCategories godoc
// @Summary List credit cards
// @Tags categories
// @Produce json
// @Success 200 {array} dto.CreditCategoryResponse
// @Router /api/credit-categories [get]
func (h *categoryHandler) listCreditCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCreditCategories(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list credit categories", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credit categories"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCreditCategoryResponses(categories))
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "Category name"
// @Success 201 {object} map[string]int64
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Name already exists"
// @Router /api/expense-categories [post]
func (h *categoryHandler) createCategory(kind domain.CategoryKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromContext(c)

		var req dto.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}

		id, err := h.categoryService.CreateCategory(c.Request.Context(), kind, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, apperrors.ErrDuplicate):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				logger.Error("Failed to create category", slog.String("kind", string(kind)), slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// renameCategory godoc
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body dto.RenameCategoryRequest true "New name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 409 {object} map[string]string "Name already exists"
// @Router /api/expense-categories/{id} [put]
func (h *categoryHandler) renameCategory(kind domain.CategoryKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromContext(c)

		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		var req dto.RenameCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}

		if err := h.categoryService.RenameCategory(c.Request.Context(), kind, id, req.Name); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, apperrors.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, apperrors.ErrDuplicate):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				logger.Error("Failed to rename category", slog.String("kind", string(kind)), slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename category"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category renamed"})
	}
}
