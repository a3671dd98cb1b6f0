package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/studentreg/web/internal/platform/timeouts"
	"github.com/studentreg/web/internal/services/web/app"
	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/modules"
	"github.com/studentreg/web/internal/services/web/modules/admin"
	"github.com/studentreg/web/internal/services/web/platform/forms"
	"github.com/studentreg/web/internal/services/web/platform/guard"
	"github.com/studentreg/web/internal/services/web/platform/httpx"
	webi18n "github.com/studentreg/web/internal/services/web/platform/i18n"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/platform/observability"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
	"github.com/studentreg/web/internal/services/web/routepath"
	"github.com/studentreg/web/internal/services/web/session"
	"github.com/studentreg/web/internal/services/web/static"
	"github.com/studentreg/web/internal/services/web/storage"
	"github.com/studentreg/web/internal/services/web/storage/memory"
	webredis "github.com/studentreg/web/internal/services/web/storage/redis"
	"github.com/studentreg/web/internal/services/web/storage/sqlite"
)

// Defaults applied by Config.normalized.
const (
	DefaultHTTPAddr      = "localhost:3000"
	DefaultSessionDBPath = "data/web-sessions.db"
	purgeInterval        = time.Hour
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr   string
	APIBaseURL string
	APITimeout time.Duration

	// SessionStore selects the session backend: sqlite, redis or memory.
	SessionStore  string
	SessionDBPath string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TrustForwardedProto bool
	RegisterSignsIn     bool
	AdminPageSize       int

	Logger *slog.Logger
	// Now overrides the clock used for sessions and form validation.
	Now func() time.Time
}

func (c Config) normalized() Config {
	c.HTTPAddr = strings.TrimSpace(c.HTTPAddr)
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.APITimeout <= 0 {
		c.APITimeout = timeouts.BackendRequest
	}
	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	if c.SessionStore == "" {
		c.SessionStore = storage.BackendSQLite
	}
	if strings.TrimSpace(c.SessionDBPath) == "" {
		c.SessionDBPath = DefaultSessionDBPath
	}
	if c.AdminPageSize < 1 {
		c.AdminPageSize = backend.DefaultPageSize
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      storage.SessionStore
	logger     *slog.Logger
}

// NewServer opens the configured session store and builds the HTTP server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	config = config.normalized()

	store, err := OpenSessionStore(ctx, config)
	if err != nil {
		return nil, err
	}
	handler, err := NewHandler(config, store)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			config.Logger.Warn("close session store", "error", closeErr)
		}
		return nil, err
	}
	return &Server{
		httpAddr: config.HTTPAddr,
		httpServer: &http.Server{
			Addr:              config.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		logger: config.Logger,
	}, nil
}

// OpenSessionStore opens the session backend named by config.SessionStore.
func OpenSessionStore(ctx context.Context, config Config) (storage.SessionStore, error) {
	config = config.normalized()
	switch config.SessionStore {
	case storage.BackendSQLite:
		store, err := sqlite.Open(config.SessionDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite session store: %w", err)
		}
		return store, nil
	case storage.BackendRedis:
		store, err := webredis.Open(ctx, webredis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis session store: %w", err)
		}
		return store, nil
	case storage.BackendMemory:
		return memory.NewWithClock(config.Now), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", config.SessionStore)
	}
}

// NewHandler composes every module and the shared middleware over store.
func NewHandler(config Config, store storage.SessionStore) (http.Handler, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	config = config.normalized()
	logger := config.Logger
	policy := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}

	client, err := backend.New(config.APIBaseURL, backend.WithHTTPClient(&http.Client{Timeout: config.APITimeout}))
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}
	manager, err := session.NewManager(session.Config{
		Store:   store,
		Backend: client,
		Policy:  policy,
		Logger:  logger,
		Now:     config.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("build session manager: %w", err)
	}
	listings := admin.NewListings(admin.WithClock(config.Now))
	manager.Subscribe(session.LogEvents(logger))
	manager.Subscribe(listings.HandleSessionEvent)

	preferences := webi18n.NewPreferences(policy)
	preferences.Subscribe(func(event webi18n.LanguageEvent) {
		logger.Debug("language changed", "from", event.From, "to", event.To)
	})

	base := modulehandler.NewBase(module.Resolvers{
		Auth:     session.StateFromRequest,
		Language: preferences.Language,
	}, policy)

	deps := modules.Dependencies{
		Base:            base,
		Language:        preferences,
		Auth:            manager,
		Registrar:       client,
		RegisterSignsIn: config.RegisterSignsIn,
		Users:           client,
		Listings:        listings,
		AdminPageSize:   config.AdminPageSize,
		Validator:       forms.New(config.Now),
	}
	composed, err := app.Compose(app.ComposeInput{
		PublicModules:  modules.DefaultPublicModules(deps),
		GuardedModules: modules.DefaultGuardedModules(deps),
		Guard:          guard.New(base).RequireUser(),
	})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}

	root := http.NewServeMux()
	root.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, staticHandler()))
	root.Handle(routepath.Root, composed)

	return httpx.Chain(root,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.RequestLogger(logger),
		app.RequireCookieSessionSameOrigin(policy),
		manager.Middleware(),
		preferences.Middleware(),
	), nil
}

func staticHandler() http.Handler {
	files := http.FileServer(http.FS(static.FS))
	return httpx.RequireMethod(http.MethodGet, http.MethodHead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	}))
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go s.purgeExpiredSessions(purgeCtx)

	serveErr := make(chan error, 1)
	s.logger.Info("web listening", "addr", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the session store.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close session store", "error", err)
	}
}

type expiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// purgeExpiredSessions sweeps stores that keep expired rows around.
func (s *Server) purgeExpiredSessions(ctx context.Context) {
	purger, ok := s.store.(expiredSessionPurger)
	if !ok {
		return
	}
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		removed, err := purger.PurgeExpired(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			s.logger.Warn("purge expired sessions", "error", err)
		case removed > 0:
			s.logger.Info("purged expired sessions", "count", removed)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
