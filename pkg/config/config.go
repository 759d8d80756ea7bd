package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendBaseURL     string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	UploadDir string

	PosthogAPIKey string

	// ReminderPollInterval controls how often the reminder worker scans
	// for due notification jobs.
	ReminderPollInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "coworking-booking-app")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "bookings@coworkhub.example")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("REMINDER_POLL_INTERVAL", "1m")

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

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.StripeSecretKey = viper.GetString("STRIPE_SECRET_KEY")
	if cfg.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY not set. Card payments will not function.")
	}
	cfg.StripeWebhookSecret = viper.GetString("STRIPE_WEBHOOK_SECRET")
	if cfg.StripeWebhookSecret == "" {
		log.Println("Warning: STRIPE_WEBHOOK_SECRET not set. Payment webhooks will be rejected.")
	}
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUser = viper.GetString("SMTP_USER")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SMTPFrom = viper.GetString("SMTP_FROM")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Email notifications will be skipped.")
	}

	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	pollStr := viper.GetString("REMINDER_POLL_INTERVAL")
	pollInterval, err := time.ParseDuration(pollStr)
	if err != nil {
		pollInterval = time.Minute
		log.Printf("Warning: Invalid value for REMINDER_POLL_INTERVAL ('%s'). Defaulting to %s.\n", pollStr, pollInterval.String())
	}
	cfg.ReminderPollInterval = pollInterval

	return cfg, nil
}
