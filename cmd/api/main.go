// Package main is the entrypoint for the notekeep API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/cache"
	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/internal/handler"
	"github.com/notekeep/notekeep/internal/metrics"
	"github.com/notekeep/notekeep/internal/middleware"
	"github.com/notekeep/notekeep/internal/repository"
	"github.com/notekeep/notekeep/internal/server"
	"github.com/notekeep/notekeep/internal/service"
)

// localLimiterIdleTTL is how long an idle in-process bucket is kept.
const localLimiterIdleTTL = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	logger.Info("connected to database", slog.String("database_url", redactURL(cfg.DatabaseURL)))

	if cfg.MigrateOnStart {
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return err
		}
		logger.Info("migrations applied")
	}

	// Initialize cache. Redis is optional; without it rate limits are per process.
	var (
		cacheClient *cache.Cache
		ipLimiter   cache.Limiter
		userLimiter cache.Limiter
		health      handler.HealthChecker
	)
	var localLimiters []*cache.LocalLimiter
	if cfg.RedisEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			return err
		}
		logger.Info("connected to Redis")
		ipLimiter = cache.NewRedisLimiter(cacheClient, "auth", cfg.RateLimitRPS, cfg.RateLimitBurst)
		userLimiter = cache.NewRedisLimiter(cacheClient, "notes", cfg.RateLimitRPS, cfg.RateLimitBurst)
		health = cacheClient
	} else {
		logger.Info("REDIS_URL not set, using in-process rate limiter")
		ipLocal := cache.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, localLimiterIdleTTL)
		userLocal := cache.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, localLimiterIdleTTL)
		localLimiters = append(localLimiters, ipLocal, userLocal)
		ipLimiter, userLimiter = ipLocal, userLocal
	}

	sessions, err := auth.NewSessionIssuer(cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL)
	if err != nil {
		repo.Close()
		return err
	}
	hasher := auth.NewPasswordHasher(auth.Algorithm(cfg.PasswordHashAlgo), cfg.BcryptCost)

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, hasher, sessions, metricsRecorder)
	noteService := service.NewNoteService(repo, metricsRecorder)

	r := setupRouter(routerDeps{
		handler:     handler.New(logger),
		health:      handler.NewHealthHandler(repo, health),
		metrics:     handler.NewMetricsHandler(metricsRecorder),
		accounts:    handler.NewAccountHandler(accountService, logger),
		notes:       handler.NewNoteHandler(noteService, logger),
		verifier:    sessions,
		ipLimiter:   ipLimiter,
		userLimiter: userLimiter,
		recorder:    metricsRecorder,
		cfg:         cfg,
		logger:      logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first, closed last.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}
	for _, l := range localLimiters {
		srv.OnShutdown("rate limiter", func(context.Context) error {
			l.Stop()
			return nil
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"redis", cfg.RedisEnabled(),
		"hash_algorithm", cfg.PasswordHashAlgo,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "notekeep")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	handler     *handler.Handler
	health      *handler.HealthHandler
	metrics     *handler.MetricsHandler
	accounts    *handler.AccountHandler
	notes       *handler.NoteHandler
	verifier    middleware.TokenVerifier
	ipLimiter   cache.Limiter
	userLimiter cache.Limiter
	recorder    metrics.Recorder
	cfg         *config.Config
	logger      *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	if origins := d.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
	}

	// Global middleware
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	// Probes and metrics (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	r.Get("/", d.handler.Hello)

	authCfg := middleware.AuthConfig{
		Logger:   d.logger,
		Verifier: d.verifier,
	}
	ipLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:  d.logger,
		Limiter: d.ipLimiter,
		Metrics: d.recorder,
		Enabled: d.cfg.RateLimitEnabled,
	})
	userLimit := middleware.RateLimitUser(middleware.RateLimitConfig{
		Logger:  d.logger,
		Limiter: d.userLimiter,
		Metrics: d.recorder,
		Enabled: d.cfg.RateLimitEnabled,
	})

	// Account routes with IP-based rate limiting
	r.With(ipLimit).Post("/create-account", d.accounts.CreateAccount)
	r.With(ipLimit).Post("/login", d.accounts.Login)

	// Authenticated routes, limited per user
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(userLimit)

		r.Get("/get-user", d.accounts.GetUser)

		r.Post("/add-note", d.notes.AddNote)
		r.Put("/edit-note/{noteId}", d.notes.EditNote)
		r.Delete("/delete-note/{noteId}", d.notes.DeleteNote)
		r.Get("/get-all-notes", d.notes.GetAllNotes)
		r.Get("/search-notes", d.notes.SearchNotes)
		r.Get("/search-notes-by-tags", d.notes.SearchNotesByTags)
		r.Get("/search-notes-by-status", d.notes.SearchNotesByStatus)
		r.Put("/update-note-status/{noteId}", d.notes.UpdateNoteStatus)
		r.Put("/update-note-pinned/{noteId}", d.notes.UpdateNotePinned)
	})

	// 404 and 405 handlers
	r.NotFound(d.handler.NotFound)
	r.MethodNotAllowed(d.handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
