package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sasatake/kakeibo_backend/cmd/docs"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/pkg/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/healthz", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIRoutes(r, services)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIRoutes configures the /api group and delegates to specific entity route registrations
func setupAPIRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	api := r.Group("/api")

	registerCategoryRoutes(api, services.Category)
	registerTransactionRoutes(api, services.Ledger)
	registerBudgetRoutes(api, services.Budget)
	registerWalletRoutes(api, services.Category)
	registerReceiptRoutes(api, services.Receipt)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
