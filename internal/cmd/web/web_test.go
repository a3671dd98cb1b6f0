package web

import (
	"flag"
	"log/slog"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:3000" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:3000")
	}
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:5000/api")
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("APITimeout = %v, want %v", cfg.APITimeout, 10*time.Second)
	}
	if cfg.SessionStore != "sqlite" {
		t.Fatalf("SessionStore = %q, want sqlite", cfg.SessionStore)
	}
	if cfg.SessionDBPath != "data/web-sessions.db" {
		t.Fatalf("SessionDBPath = %q", cfg.SessionDBPath)
	}
	if cfg.AdminPageSize != 10 {
		t.Fatalf("AdminPageSize = %d, want 10", cfg.AdminPageSize)
	}
	if cfg.RegisterSignsIn || cfg.TrustForwardedProto {
		t.Fatalf("boolean defaults = %+v, want false", cfg)
	}
}

func TestParseConfigReadsEnvironment(t *testing.T) {
	t.Setenv("WEB_HTTP_ADDR", "0.0.0.0:8080")
	t.Setenv("WEB_SESSION_STORE", "redis")
	t.Setenv("WEB_REDIS_ADDR", "redis:6379")
	t.Setenv("WEB_REDIS_DB", "2")
	t.Setenv("WEB_REGISTER_SIGNS_IN", "true")
	t.Setenv("WEB_API_TIMEOUT", "3s")

	cfg, err := ParseConfig(flag.NewFlagSet("web", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:8080" || cfg.SessionStore != "redis" || cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !cfg.RegisterSignsIn {
		t.Fatalf("RegisterSignsIn = false, want true")
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("APITimeout = %v, want 3s", cfg.APITimeout)
	}
}

func TestParseConfigFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("WEB_HTTP_ADDR", "0.0.0.0:8080")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9002", "-session-store", "memory", "-admin-page-size", "25"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
	if cfg.SessionStore != "memory" || cfg.AdminPageSize != 25 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(discard{})
	if _, err := ParseConfig(fs, []string{"-grpc-addr", "x"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestNewLoggerParsesLevel(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("debug")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("expected debug level enabled")
	}
	if _, err := NewLogger("loud"); err == nil {
		t.Fatal("expected invalid level error")
	}
}

func TestServerConfigCarriesEveryField(t *testing.T) {
	t.Parallel()

	cfg := Config{
		HTTPAddr:            ":3000",
		APIBaseURL:          "http://api/api",
		APITimeout:          time.Second,
		SessionStore:        "redis",
		SessionDBPath:       "x.db",
		RedisAddr:           "redis:6379",
		RedisPassword:       "pw",
		RedisDB:             1,
		TrustForwardedProto: true,
		RegisterSignsIn:     true,
		AdminPageSize:       5,
	}
	got := cfg.serverConfig(slog.Default())
	if got.HTTPAddr != cfg.HTTPAddr || got.APIBaseURL != cfg.APIBaseURL || got.APITimeout != cfg.APITimeout ||
		got.SessionStore != cfg.SessionStore || got.SessionDBPath != cfg.SessionDBPath ||
		got.RedisAddr != cfg.RedisAddr || got.RedisPassword != cfg.RedisPassword || got.RedisDB != cfg.RedisDB ||
		!got.TrustForwardedProto || !got.RegisterSignsIn || got.AdminPageSize != cfg.AdminPageSize || got.Logger == nil {
		t.Fatalf("serverConfig() = %+v", got)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
