// api/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"ecomdash/api/models"
	"ecomdash/api/utils"
)

type Config struct {
	Port    string
	GinMode string

	DataSource string // csv, postgres, mysql or clickhouse
	DataDir    string

	Year            int
	TotalOrdersMode string
	FrequencyBins   int
	RecencyBins     int
	MonetaryBins    int

	FEOrigin       string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can pass a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:            withDefault(getenv("PORT"), "8080"),
		GinMode:         getenv("GIN_MODE"),
		DataSource:      strings.ToLower(withDefault(getenv("DATA_SOURCE"), "csv")),
		DataDir:         withDefault(getenv("DATA_DIR"), "dashboard"),
		TotalOrdersMode: strings.ToLower(withDefault(getenv("TOTAL_ORDERS_MODE"), models.ModeSize)),
		FEOrigin:        getenv("FE_ORIGIN"),
	}

	var err error
	if cfg.Year, err = intVar(getenv, "DASHBOARD_YEAR", 2017); err != nil {
		return nil, err
	}
	if cfg.FrequencyBins, err = intVar(getenv, "HIST_BINS_FREQUENCY", 30); err != nil {
		return nil, err
	}
	if cfg.RecencyBins, err = intVar(getenv, "HIST_BINS_RECENCY", 20); err != nil {
		return nil, err
	}
	if cfg.MonetaryBins, err = intVar(getenv, "HIST_BINS_MONETARY", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intVar(getenv, "RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	cfg.RateLimitRPS = 10
	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.RateLimitRPS <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q", v)
		}
	}

	switch cfg.DataSource {
	case "csv", "postgres", "mysql", "clickhouse":
	default:
		return nil, fmt.Errorf("invalid DATA_SOURCE %q (want csv, postgres, mysql or clickhouse)", cfg.DataSource)
	}
	switch cfg.TotalOrdersMode {
	case models.ModeSize, models.ModeRows:
	default:
		return nil, fmt.Errorf("invalid TOTAL_ORDERS_MODE %q (want %s or %s)", cfg.TotalOrdersMode, models.ModeSize, models.ModeRows)
	}
	for name, bins := range map[string]int{"frequency": cfg.FrequencyBins, "recency": cfg.RecencyBins, "monetary": cfg.MonetaryBins} {
		if bins < 1 || bins > utils.MaxBins {
			return nil, fmt.Errorf("histogram bins for %s must be between 1 and %d, got %d", name, utils.MaxBins, bins)
		}
	}

	return cfg, nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
