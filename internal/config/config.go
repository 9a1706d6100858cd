package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppConfig is the full application configuration, loaded from environment.
type AppConfig struct {
	OpenWeatherAPIKey string

	// Locations is the fixed, ordered monitored set. Sweeps iterate it in
	// this order.
	Locations []string

	// PollInterval controls how often the scheduler sweeps all locations.
	PollInterval time.Duration

	// PollTimeout bounds one location's fetch/persist/alert pipeline.
	PollTimeout time.Duration

	// HTTPTimeout applies to outbound provider calls.
	HTTPTimeout time.Duration

	// Cache expiries for current observations and forecast payloads.
	CurrentCacheTTL  time.Duration
	ForecastCacheTTL time.Duration

	// Alerting.
	AlertThreshold   float64 // °C
	AlertConsecutive int

	// External stores; empty values select the in-process fallbacks.
	DatabaseDSN string
	RedisAddr   string

	// SMTP alert delivery; alerts fall back to the log when unset.
	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AlertEmailTo string

	Port string
}

// DefaultLocations is the reference deployment's monitored set.
var DefaultLocations = []string{"Delhi", "Mumbai", "Chennai", "Bangalore", "Kolkata", "Hyderabad"}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("config: no .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	cfg.Locations = DefaultLocations
	if v := os.Getenv("WEATHER_LOCATIONS"); v != "" {
		cfg.Locations = splitLocations(v)
	}
	if len(cfg.Locations) == 0 {
		return nil, fmt.Errorf("WEATHER_LOCATIONS must name at least one city")
	}

	var err error
	if cfg.PollInterval, err = getenvDuration("POLL_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PollTimeout, err = getenvDuration("POLL_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CurrentCacheTTL, err = getenvDuration("CURRENT_CACHE_TTL", 300*time.Second); err != nil {
		return nil, err
	}
	if cfg.ForecastCacheTTL, err = getenvDuration("FORECAST_CACHE_TTL", 1800*time.Second); err != nil {
		return nil, err
	}

	cfg.AlertThreshold = getenvFloat("ALERT_THRESHOLD", 35.0)
	cfg.AlertConsecutive = getenvInt("ALERT_CONSECUTIVE", 2)

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")

	cfg.SMTPServer = os.Getenv("SMTP_SERVER")
	cfg.SMTPPort = getenvInt("SMTP_PORT", 587)
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.AlertEmailTo = os.Getenv("ALERT_EMAIL_TO")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func splitLocations(v string) []string {
	var locs []string
	for _, part := range strings.Split(v, ",") {
		if city := strings.TrimSpace(part); city != "" {
			locs = append(locs, city)
		}
	}
	return locs
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
