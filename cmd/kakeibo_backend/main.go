package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/sasatake/kakeibo_backend/internal/adapters/visionocr"
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"github.com/sasatake/kakeibo_backend/internal/core/services"
	"github.com/sasatake/kakeibo_backend/internal/handlers"
	"github.com/sasatake/kakeibo_backend/internal/middleware"
	"github.com/sasatake/kakeibo_backend/internal/repositories/database/pgsql"
	"github.com/sasatake/kakeibo_backend/internal/repositories/database/sqlite"
	"github.com/sasatake/kakeibo_backend/pkg/config"
	"github.com/sasatake/kakeibo_backend/pkg/database"
)

// @title Kakeibo Backend API
// @version 1.0
// @description Household budgeting backend: transactions, wallets, monthly budgets and receipt OCR.

// @BasePath /api
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Amounts go over the wire as JSON numbers, matching the original client.
	decimal.MarshalJSONWithoutQuotes = true

	repos, err := buildRepositories(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repos.Close()

	analyzer := buildReceiptAnalyzer(context.Background(), cfg, logger)

	serviceContainer := services.NewServiceContainer(repos, analyzer)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	registerCustomValidators(logger)

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg)),
		middleware.RateLimit(buildRateLimiter(cfg, logger)),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories picks the storage backend: PostgreSQL when DATABASE_URL
// is set, the embedded SQLite file otherwise. Migrations run on startup in
// both cases.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*portsrepo.RepositoryProvider, error) {
	if cfg.DatabaseURL != "" {
		logger.Info("Using PostgreSQL backend")
		if err := database.MigratePgsql(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pgsql.NewRepositoryProvider(pool), nil
	}

	logger.Info("Using SQLite backend", slog.String("path", cfg.SQLitePath))
	db, err := database.NewSQLiteDB(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return sqlite.NewRepositoryProvider(db), nil
}

// buildReceiptAnalyzer wires the Vision OCR adapter when credentials are
// configured. Without credentials the receipt endpoints answer 503 and the
// rest of the application works normally.
func buildReceiptAnalyzer(ctx context.Context, cfg *config.Config, logger *slog.Logger) portssvc.ReceiptAnalyzer {
	if cfg.VisionCredentialsFile == "" {
		logger.Warn("VISION_CREDENTIALS_FILE not set, receipt analysis disabled")
		return nil
	}
	analyzer, err := visionocr.New(ctx, cfg.VisionCredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize Vision OCR client, receipt analysis disabled", slog.String("error", err.Error()))
		return nil
	}
	return analyzer
}

func buildRateLimiter(cfg *config.Config, logger *slog.Logger) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT format, falling back to 300-M", slog.String("error", err.Error()))
		rate, _ = limiter.NewRateFromFormatted("300-M")
	}
	return limiter.New(memory.NewStore(), rate)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}

// registerCustomValidators adds the "month" binding rule used by the budget
// payloads.
func registerCustomValidators(logger *slog.Logger) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Error("Failed to access validator engine")
		os.Exit(1)
	}
	if err := v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		m := fl.Field().Int()
		return m >= 1 && m <= 12
	}); err != nil {
		logger.Error("Failed to register month validator", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
