package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kidofood-web/internal/api"
	"kidofood-web/internal/config"
	"kidofood-web/internal/db"
	"kidofood-web/internal/logger"
	"kidofood-web/internal/middleware"
	"kidofood-web/internal/page"
	"kidofood-web/internal/session"
	"kidofood-web/internal/theme"

	"go.uber.org/zap"
)

const (
	sessionPurgeInterval = 10 * time.Minute
	visitorPurgeInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	var database *sql.DB
	if cfg.SessionBackend == config.SessionBackendPostgres {
		database = initDBFunc(cfg)
		defer database.Close()
	}

	handler, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("kidofood web running",
		zap.String("addr", addr),
		zap.String("backend", cfg.BackendAPI),
		zap.String("session_backend", cfg.SessionBackend),
	)
	return startServerFunc(ctx, addr, handler)
}

func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	store, err := newSessionStore(ctx, cfg, database)
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewLimiter()
	go limiter.Run(ctx, visitorPurgeInterval)

	client := api.NewClient(cfg.BackendAPI, api.WithLocalCookies(
		session.DefaultCookieName,
		session.DefaultIDCookieName,
		theme.StorageKey,
	))

	return page.NewRouter(page.Deps{
		Client:        client,
		Sessions:      session.NewManager(store),
		Limiter:       limiter,
		SecureCookies: cfg.SecureCookies,
	})
}

func newSessionStore(ctx context.Context, cfg *config.Config, database *sql.DB) (session.Store, error) {
	opts := session.CookieOptions{TTL: cfg.SessionTTL, Secure: cfg.SecureCookies}

	if cfg.SessionBackend == config.SessionBackendPostgres {
		if database == nil {
			return nil, errors.New("postgres session backend needs a database")
		}
		store := session.NewPostgresStore(session.NewRepository(database), opts)
		go store.PurgeExpired(ctx, sessionPurgeInterval)
		return store, nil
	}

	return session.NewCookieStore(cfg.AppSecret, opts)
}

// startServer serves until ctx is cancelled, then drains in-flight requests.
func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
