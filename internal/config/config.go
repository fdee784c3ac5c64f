package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	minTaxRate = 0.0
	maxTaxRate = 0.3
)

type Config struct {
	DBPath    string
	OutputDir string

	TaxRate       decimal.Decimal
	InputEncoding string

	LogLevel  string
	LogFormat string

	WatchDir         string
	WatchIntervalSec int
	WatchAutoExport  bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "session.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		TaxRate:       decimal.NewFromFloat(getEnvFloat("TAX_RATE", 0.10)),
		InputEncoding: strings.ToLower(getEnv("INPUT_ENCODING", "auto")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		WatchDir:         getEnv("WATCH_DIR", filepath.Join(cwd, "inbox")),
		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 30),
		WatchAutoExport:  getEnvBool("WATCH_AUTO_EXPORT", true),
	}

	if err := ValidateTaxRate(cfg.TaxRate); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateTaxRate accepts the range the order form allows.
func ValidateTaxRate(rate decimal.Decimal) error {
	if rate.LessThan(decimal.NewFromFloat(minTaxRate)) || rate.GreaterThan(decimal.NewFromFloat(maxTaxRate)) {
		return fmt.Errorf("tax rate %s outside [%.2f, %.2f]", rate.String(), minTaxRate, maxTaxRate)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
