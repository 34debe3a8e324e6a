package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// DatabaseURL selects the PostgreSQL backend when set; otherwise the
	// service falls back to the SQLite file at SQLitePath.
	DatabaseURL  string
	SQLitePath   string
	Port         string
	IsProduction bool

	// RateLimit is a ulule/limiter formatted rate, e.g. "120-M".
	RateLimit          string
	CORSAllowedOrigins []string

	// VisionCredentialsFile points at a Google service account JSON key.
	// Receipt analysis stays disabled while it is empty.
	VisionCredentialsFile string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SQLITE_PATH", "data/kakeibo.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("VISION_CREDENTIALS_FILE", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:           viper.GetString("DATABASE_URL"),
		SQLitePath:            viper.GetString("SQLITE_PATH"),
		Port:                  viper.GetString("PORT"),
		IsProduction:          viper.GetBool("IS_PRODUCTION"),
		RateLimit:             viper.GetString("RATE_LIMIT"),
		VisionCredentialsFile: viper.GetString("VISION_CREDENTIALS_FILE"),
	}

	origins := viper.GetString("CORS_ALLOWED_ORIGINS")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL not set, using SQLite at %s\n", cfg.SQLitePath)
	}
	if cfg.VisionCredentialsFile == "" {
		log.Println("VISION_CREDENTIALS_FILE not set, receipt analysis disabled.")
	}

	return cfg, nil
}
