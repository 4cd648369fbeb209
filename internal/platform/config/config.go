package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration for both the API and worker binaries.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string
	JWTIssuer    string

	// Work queue
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Outbound email
	ResendAPIKey string
	ResendFrom   string

	// Insight generation
	GeminiModel string

	// Worker tuning
	RecurringRateLimit       string // limiter format, e.g. "10-M"
	StepRetryBase            time.Duration
	StepRetryMaxAttempts     int
	RecurringTriggerInterval time.Duration
	BudgetCheckInterval      time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "welth-identity")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "welth")
	viper.SetDefault("AMQP_QUEUE", "recurring.process")
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("RESEND_FROM", "Welth <noreply@welth.app>")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("RECURRING_RATE_LIMIT", "10-M")
	viper.SetDefault("STEP_RETRY_BASE", "2s")
	viper.SetDefault("STEP_RETRY_MAX_ATTEMPTS", 2)
	viper.SetDefault("RECURRING_TRIGGER_INTERVAL", "24h")
	viper.SetDefault("BUDGET_CHECK_INTERVAL", "6h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.AMQPExchange = viper.GetString("AMQP_EXCHANGE")
	cfg.AMQPQueue = viper.GetString("AMQP_QUEUE")

	cfg.ResendAPIKey = viper.GetString("RESEND_API_KEY")
	cfg.ResendFrom = viper.GetString("RESEND_FROM")

	cfg.GeminiModel = viper.GetString("GEMINI_MODEL")

	cfg.RecurringRateLimit = viper.GetString("RECURRING_RATE_LIMIT")

	cfg.StepRetryBase = durationOrDefault("STEP_RETRY_BASE", 2*time.Second)
	cfg.StepRetryMaxAttempts = viper.GetInt("STEP_RETRY_MAX_ATTEMPTS")
	if cfg.StepRetryMaxAttempts < 1 {
		cfg.StepRetryMaxAttempts = 1
	}
	cfg.RecurringTriggerInterval = durationOrDefault("RECURRING_TRIGGER_INTERVAL", 24*time.Hour)
	cfg.BudgetCheckInterval = durationOrDefault("BUDGET_CHECK_INTERVAL", 6*time.Hour)

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
