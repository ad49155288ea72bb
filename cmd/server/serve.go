package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"revisionai/internal/api"
	"revisionai/internal/api/handlers"
	"revisionai/internal/config"
	"revisionai/internal/db"
	"revisionai/internal/extract"
	"revisionai/internal/gemini"
	"revisionai/internal/i18n"
	"revisionai/internal/logger"
	"revisionai/internal/store"
	"revisionai/internal/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gsessions "github.com/gin-contrib/sessions/postgres"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("port", "p", "8080", "HTTP listen port")
	f.StringP("lang", "l", "en", "Default UI language (en, fr)")
	f.String("answer-store", config.AnswerStoreMemory, "Where quiz answers are kept (memory, redis, postgres)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := config.Load(viperForCmd(cmd))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	translator, err := i18n.New(cfg.UILang, log)
	if err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	geminiClient := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	defer geminiClient.Close()

	answers, closeAnswers, err := newAnswerStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("answer store: %w", err)
	}
	defer closeAnswers()

	sessionStore, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer closeSessions()

	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	handler := handlers.NewHandler(
		extract.NewPDFExtractor(extract.MaxChars, log),
		geminiClient,
		answers,
		translator,
		cfg.Upload,
		log,
	)
	router := api.NewRouter(api.RouterConfig{
		Handler:      handler,
		Logger:       log,
		SessionName:  cfg.Session.Name,
		SessionStore: sessionStore,
		FrontendURL:  cfg.FrontendURL,
		Templates:    templates,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("answer_store", cfg.AnswerStore.Backend),
			zap.String("session_backend", cfg.Session.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	// Give server 5 seconds to shut down gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited properly")
	return nil
}

// newAnswerStore opens the configured answer store. The returned func releases
// its connections.
func newAnswerStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.AnswerStore, func(), error) {
	switch cfg.AnswerStore.Backend {
	case config.AnswerStoreRedis:
		client, err := store.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("answers kept in Redis", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.AnswerStore.TTL))
		return store.NewRedisStore(client, cfg.AnswerStore.TTL), func() { _ = client.Close() }, nil

	case config.AnswerStorePostgres:
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pgStore := store.NewPostgresStore(database.Pool, cfg.AnswerStore.TTL)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		log.Info("answers kept in PostgreSQL", zap.Duration("ttl", cfg.AnswerStore.TTL))
		return pgStore, database.Close, nil

	default:
		log.Info("answers kept in process memory", zap.Duration("ttl", cfg.AnswerStore.TTL))
		return store.NewMemoryStore(cfg.AnswerStore.TTL), func() {}, nil
	}
}

// newSessionStore builds the store behind the session cookie. It only ever
// holds the session token.
func newSessionStore(ctx context.Context, cfg *config.Config) (sessions.Store, func(), error) {
	secret := []byte(cfg.Session.Secret)

	var (
		sessionStore sessions.Store
		closeFn      = func() {}
	)
	switch cfg.Session.Backend {
	case config.SessionBackendPostgres:
		sessionDB, err := db.OpenSQL(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pgStore, err := gsessions.NewStore(sessionDB, secret)
		if err != nil {
			_ = sessionDB.Close()
			return nil, nil, fmt.Errorf("failed to create postgres session store: %w", err)
		}
		sessionStore = pgStore
		closeFn = func() { _ = sessionDB.Close() }
	default:
		sessionStore = cookie.NewStore(secret)
	}

	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		Secure:   cfg.Session.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionStore, closeFn, nil
}
