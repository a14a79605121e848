package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	AdminAPIKey string
	Database    DatabaseConfig
	OpenAI      OpenAIConfig
	Resend      ResendConfig
	Waitlist    WaitlistConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
}

// OpenAIConfig holds vision API configuration. An empty APIKey switches the
// OCR endpoint into demo mode.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ResendConfig holds transactional email configuration. An empty APIKey
// disables the waitlist notification email.
type ResendConfig struct {
	APIKey            string
	From              string
	NotificationEmail string
}

// WaitlistConfig holds waitlist-specific configuration
type WaitlistConfig struct {
	// BypassNumbers are phone numbers exempted from the duplicate check,
	// used for testing signups repeatedly.
	BypassNumbers []string
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DATABASE_URL", "./data/muhasib.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 5)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 2)
	viper.SetDefault("OPENAI_MODEL", "gpt-4o")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("EMAIL_FROM", "Muhasib <onboarding@resend.dev>")
	viper.SetDefault("NOTIFICATION_EMAIL", "zamil@feedbacknfc.com")
	viper.SetDefault("WAITLIST_BYPASS_NUMBERS", "0549251252")

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		AdminAPIKey: viper.GetString("ADMIN_API_KEY"),
		Database: DatabaseConfig{
			ConnectionString: viper.GetString("DATABASE_URL"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			Model:   viper.GetString("OPENAI_MODEL"),
			BaseURL: viper.GetString("OPENAI_BASE_URL"),
		},
		Resend: ResendConfig{
			APIKey:            viper.GetString("RESEND_API_KEY"),
			From:              viper.GetString("EMAIL_FROM"),
			NotificationEmail: viper.GetString("NOTIFICATION_EMAIL"),
		},
		Waitlist: WaitlistConfig{
			BypassNumbers: splitList(viper.GetString("WAITLIST_BYPASS_NUMBERS")),
		},
	}

	return config, nil
}

// splitList splits a comma-separated environment value into trimmed entries
func splitList(value string) []string {
	var entries []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
