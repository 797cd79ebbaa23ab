// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
	"github.com/olegiv/sweetshop-go/internal/config"
	"github.com/olegiv/sweetshop-go/internal/handler"
	"github.com/olegiv/sweetshop-go/internal/logging"
	"github.com/olegiv/sweetshop-go/internal/middleware"
	"github.com/olegiv/sweetshop-go/internal/render"
	"github.com/olegiv/sweetshop-go/internal/scheduler"
	"github.com/olegiv/sweetshop-go/internal/service"
	"github.com/olegiv/sweetshop-go/internal/session"
	"github.com/olegiv/sweetshop-go/internal/store"
	"github.com/olegiv/sweetshop-go/internal/version"
	"github.com/olegiv/sweetshop-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// staticMaxAge is the Cache-Control lifetime of embedded assets.
const staticMaxAge = 7 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Sweet Shop - web frontend for the Sweet Shop API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SWEETSHOP_API_URL          Backend base URL (default: http://localhost:8000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SWEETSHOP_SESSION_SECRET   Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SWEETSHOP_DB_PATH          SQLite database path (default: ./data/sweetshop.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SWEETSHOP_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SWEETSHOP_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SWEETSHOP_REDIS_URL        Redis URL for shared sessions (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("sweetshop %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warnings and errors also go to the event log.
	logger = slog.New(logging.NewEventLogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	ctx := context.Background()

	sessionManager, closeSessions, err := newSessionManager(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeSessions()

	client := apiclient.New(cfg.APIURL,
		apiclient.WithTokenSource(session.TokenSource(session.NewManagerStorage(sessionManager))),
		apiclient.WithLogger(logger),
		apiclient.WithRequestIDFunc(chimw.GetReqID),
	)
	slog.Info("backend client initialized", "api_url", cfg.APIURL+apiclient.APIPrefix)

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sched := scheduler.New(db, logger, cfg.EventRetention())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: cfg.LoginRateLimit,
		IPBurst:     cfg.LoginBurst,
	})
	defer loginProtection.Close()

	eventService := service.NewEventService(db)
	catalogService := service.NewCatalogService(client, logger)

	authHandler := handler.NewAuthHandler(renderer, sessionManager, loginProtection, eventService)
	catalogHandler := handler.NewCatalogHandler(renderer, sessionManager, catalogService, service.NewGuard(), eventService)
	eventsHandler := handler.NewEventsHandler(renderer, eventService)
	healthHandler := handler.NewHealthHandler(db, client, versionInfo, cfg.IsDevelopment())

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Health checks carry no session.
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteHealth+"/live", healthHandler.Liveness)
	r.Get(handler.RouteHealth+"/ready", healthHandler.Readiness)

	r.Handle("/static/*", middleware.StaticCache(staticMaxAge)(
		http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))),
	))

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)
		r.Use(middleware.LoadSession(sessionManager, client, logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated(handler.RouteRoot))
			r.Use(loginProtection.Middleware())
			r.Get(handler.RouteLogin, authHandler.LoginForm)
			r.Post(handler.RouteLogin, authHandler.Login)
			r.Get(handler.RouteRegister, authHandler.RegisterForm)
			r.Post(handler.RouteRegister, authHandler.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post(handler.RouteLogout, authHandler.Logout)
			r.Get(handler.RouteRoot, catalogHandler.Index)
			r.Get(handler.RouteSweetsID+handler.RouteSuffixPurchase, catalogHandler.PurchaseForm)
			r.Post(handler.RouteSweetsID+handler.RouteSuffixPurchase, catalogHandler.Purchase)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get(handler.RouteSweets+handler.RouteSuffixNew, catalogHandler.New)
				r.Post(handler.RouteSweets, catalogHandler.Create)
				r.Get(handler.RouteSweetsID+handler.RouteSuffixEdit, catalogHandler.Edit)
				r.Post(handler.RouteSweetsID, catalogHandler.Update) // HTML forms can't send PUT
				r.Get(handler.RouteSweetsID+handler.RouteSuffixDelete, catalogHandler.DeleteConfirm)
				r.Post(handler.RouteSweetsID+handler.RouteSuffixDelete, catalogHandler.Delete)
				r.Get(handler.RouteSweetsID+handler.RouteSuffixRestock, catalogHandler.RestockForm)
				r.Post(handler.RouteSweetsID+handler.RouteSuffixRestock, catalogHandler.Restock)
				r.Get(handler.RouteAdminEvents, eventsHandler.List)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newSessionManager returns the scs manager over Redis when configured,
// otherwise over the SQLite database. The returned func releases the store.
func newSessionManager(ctx context.Context, cfg *config.Config, db *sql.DB) (*scs.SessionManager, func(), error) {
	if !cfg.UseRedisSessions() {
		slog.Info("session manager initialized", "store", "sqlite")
		return session.New(db, cfg.IsDevelopment()), func() {}, nil
	}

	redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis session store: %w", err)
	}
	slog.Info("session manager initialized", "store", "redis")
	return session.NewWithStore(redisStore, cfg.IsDevelopment()), func() {
		if err := redisStore.Close(); err != nil {
			slog.Error("error closing redis session store", "error", err)
		}
	}, nil
}
