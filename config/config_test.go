package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != "3000" || cfg.Database.Driver != "postgres" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Recognition.MetricWindow != 52 || cfg.Recognition.CheckConcurrency != 8 {
		t.Fatalf("unexpected recognition defaults: %+v", cfg.Recognition)
	}
	if cfg.RateLimit.CheckWindow != 5*time.Minute {
		t.Fatalf("expected 5m check window, got %s", cfg.RateLimit.CheckWindow)
	}
	if cfg.LogMode != cfg.AppEnv {
		t.Fatalf("expected log mode to follow APP_ENV, got %q", cfg.LogMode)
	}
}

func TestParseRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid config:") {
		t.Fatalf("expected invalid config prefix, got %v", err)
	}
}

func TestParseRejectsBadNumber(t *testing.T) {
	t.Setenv("RECOGNITION_METRIC_WINDOW", "lots")

	_, err := Parse()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestValidateServer(t *testing.T) {
	if err := (Config{JWTSecret: "short"}).ValidateServer(); err == nil {
		t.Fatal("expected short secret to fail")
	}
	if err := (Config{JWTSecret: strings.Repeat("x", 32)}).ValidateServer(); err != nil {
		t.Fatalf("expected 32 byte secret to pass: %v", err)
	}
}

func TestDSNPrefersURL(t *testing.T) {
	d := Database{URL: "postgres://u:p@db/teamcal", Host: "ignored"}
	if d.DSN() != d.URL {
		t.Fatalf("expected URL, got %q", d.DSN())
	}
	d.URL = ""
	d.Host, d.Port, d.User, d.Name, d.SSLMode = "db", "5432", "u", "teamcal", "disable"
	if !strings.Contains(d.DSN(), "host=db") || !strings.Contains(d.DSN(), "dbname=teamcal") {
		t.Fatalf("unexpected DSN %q", d.DSN())
	}
}
