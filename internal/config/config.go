package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port                string
	DBConn              string
	LogLevel            string
	CBRURL              string
	BankMargin          float64
	KeyRateTTL          time.Duration
	AnomalyCron         string
	ProtectedCategories []string // nil means the built-in vocabulary
	ExtraProtected      []string
}

// NewConfig loads configuration from environment variables, reading a .env file first
// when one exists
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBConn:      getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=finhealth sslmode=disable"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		CBRURL:      getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		AnomalyCron: getEnv("ANOMALY_CRON", "0 3 * * *"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}

	margin, err := strconv.ParseFloat(getEnv("BANK_MARGIN", "5.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BANK_MARGIN: %w", err)
	}
	cfg.BankMargin = margin

	ttl, err := time.ParseDuration(getEnv("KEY_RATE_TTL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid KEY_RATE_TTL: %w", err)
	}
	cfg.KeyRateTTL = ttl

	if path := getEnv("PROTECTED_CATEGORIES_FILE", ""); path != "" {
		categories, err := LoadProtectedCategories(path)
		if err != nil {
			return nil, err
		}
		cfg.ProtectedCategories = categories
	}
	cfg.ExtraProtected = splitList(getEnv("PROTECTED_CATEGORIES", ""))

	return cfg, nil
}

// LoadProtectedCategories reads the protected_categories list from a YAML, JSON or TOML file
func LoadProtectedCategories(path string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read protected categories: %w", err)
	}
	categories := v.GetStringSlice("protected_categories")
	if len(categories) == 0 {
		return nil, fmt.Errorf("no protected_categories in %s", path)
	}
	return categories, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
