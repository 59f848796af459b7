package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DefaultCities is the fixed list of tracked Indian cities, in fetch order.
var DefaultCities = []string{
	"New Delhi", "Kolkata", "Mumbai", "Chennai", "Bangalore",
	"Hyderabad", "Pune", "Gurgaon", "Lucknow", "Guwahati",
	"Bhubaneswar", "Ahmedabad", "Jaipur", "Dehradun", "Shimla",
}

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}

	Fetch struct {
		BaseURL   string
		UserAgent string
		Timeout   time.Duration
		Throttle  time.Duration
		Cities    []string
	}

	Export struct {
		OutputDir string
	}

	Scheduler struct {
		// RefreshSchedule is a cron spec; empty disables periodic refresh.
		RefreshSchedule string
	}

	Store struct {
		MaxHistory int
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("SERVER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "10s"))

	// Fetch configuration
	cfg.Fetch.BaseURL = getEnv("WTTR_BASE_URL", "https://wttr.in")
	cfg.Fetch.UserAgent = getEnv("WTTR_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	cfg.Fetch.Timeout = parseDuration(getEnv("FETCH_TIMEOUT", "10s"))
	cfg.Fetch.Throttle = parseDuration(getEnv("FETCH_THROTTLE", "1s"))

	if cities := os.Getenv("CITIES"); cities != "" {
		for _, city := range strings.Split(cities, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.Fetch.Cities = append(cfg.Fetch.Cities, city)
			}
		}
	} else {
		cfg.Fetch.Cities = append(cfg.Fetch.Cities, DefaultCities...)
	}

	// Export configuration
	cfg.Export.OutputDir = getEnv("OUTPUT_DIR", "output")

	// Scheduler configuration
	cfg.Scheduler.RefreshSchedule = getEnv("REFRESH_SCHEDULE", "")

	// Store configuration
	cfg.Store.MaxHistory = parseInt(getEnv("MAX_RUN_HISTORY", "10"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}
