// Package web parses web command configuration and launches the server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	entrypoint "github.com/studentreg/web/internal/platform/cmd"
	"github.com/studentreg/web/internal/platform/config"
	"github.com/studentreg/web/internal/services/web"
)

// DotEnvPath is the optional dotenv file loaded before parsing.
const DotEnvPath = ".env"

// Config holds the web command configuration.
type Config struct {
	HTTPAddr   string        `env:"WEB_HTTP_ADDR" envDefault:"localhost:3000"`
	APIBaseURL string        `env:"WEB_API_BASE_URL" envDefault:"http://localhost:5000/api"`
	APITimeout time.Duration `env:"WEB_API_TIMEOUT" envDefault:"10s"`

	SessionStore  string `env:"WEB_SESSION_STORE" envDefault:"sqlite"`
	SessionDBPath string `env:"WEB_SESSION_DB_PATH" envDefault:"data/web-sessions.db"`
	RedisAddr     string `env:"WEB_REDIS_ADDR"`
	RedisPassword string `env:"WEB_REDIS_PASSWORD"`
	RedisDB       int    `env:"WEB_REDIS_DB" envDefault:"0"`

	TrustForwardedProto bool   `env:"WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
	RegisterSignsIn     bool   `env:"WEB_REGISTER_SIGNS_IN" envDefault:"false"`
	AdminPageSize       int    `env:"WEB_ADMIN_PAGE_SIZE" envDefault:"10"`
	LogLevel            string `env:"WEB_LOG_LEVEL" envDefault:"info"`
}

// ParseConfig loads the dotenv file, then the environment, then flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if err := config.LoadDotEnv(DotEnvPath); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	bindFlags(fs, &cfg)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Backend REST API base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Timeout for one backend request")
	fs.StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "Session store: sqlite, redis or memory")
	fs.StringVar(&cfg.SessionDBPath, "session-db-path", cfg.SessionDBPath, "SQLite session database path")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis session store")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honour X-Forwarded-Proto")
	fs.BoolVar(&cfg.RegisterSignsIn, "register-signs-in", cfg.RegisterSignsIn, "Start a session after registration")
	fs.IntVar(&cfg.AdminPageSize, "admin-page-size", cfg.AdminPageSize, "Admin listing page size")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
}

// NewLogger builds the process logger for level.
func NewLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWeb, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, cfg.serverConfig(logger))
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

func (c Config) serverConfig(logger *slog.Logger) web.Config {
	return web.Config{
		HTTPAddr:            c.HTTPAddr,
		APIBaseURL:          c.APIBaseURL,
		APITimeout:          c.APITimeout,
		SessionStore:        c.SessionStore,
		SessionDBPath:       c.SessionDBPath,
		RedisAddr:           c.RedisAddr,
		RedisPassword:       c.RedisPassword,
		RedisDB:             c.RedisDB,
		TrustForwardedProto: c.TrustForwardedProto,
		RegisterSignsIn:     c.RegisterSignsIn,
		AdminPageSize:       c.AdminPageSize,
		Logger:              logger,
	}
}
