package config

import (
	"testing"

	"ecomdash/api/models"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.DataSource != "csv" || cfg.DataDir != "dashboard" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Year != 2017 || cfg.TotalOrdersMode != models.ModeSize {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.FrequencyBins != 30 || cfg.RecencyBins != 20 || cfg.MonetaryBins != 20 {
		t.Fatalf("unexpected bins: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DATA_SOURCE":       "Postgres",
		"DASHBOARD_YEAR":    "2018",
		"TOTAL_ORDERS_MODE": "rows",
		"RATE_LIMIT_RPS":    "2.5",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource != "postgres" || cfg.Year != 2018 || cfg.TotalOrdersMode != models.ModeRows || cfg.RateLimitRPS != 2.5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	cases := []map[string]string{
		{"DATA_SOURCE": "sqlite"},
		{"TOTAL_ORDERS_MODE": "cells"},
		{"DASHBOARD_YEAR": "twenty"},
		{"HIST_BINS_RECENCY": "0"},
		{"HIST_BINS_FREQUENCY": "1000000000"},
		{"RATE_LIMIT_RPS": "-1"},
	}
	for _, c := range cases {
		if _, err := FromEnv(envMap(c)); err == nil {
			t.Fatalf("expected error for %v", c)
		}
	}
}
