// Command server runs the study-kit backend: an HTTP API that turns uploaded
// syllabi (files, images, video captions, or pasted text) into generated
// study material, with accounts and per-user history on SQLite.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ailearnpro/go-study-backend/internal/config"
	httpapi "github.com/ailearnpro/go-study-backend/internal/http"
	"github.com/ailearnpro/go-study-backend/internal/observability"
	"github.com/ailearnpro/go-study-backend/internal/repo"
	"github.com/ailearnpro/go-study-backend/internal/services"
	"github.com/ailearnpro/go-study-backend/internal/studykit"
	"github.com/ailearnpro/go-study-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging: level from config, pretty console for local dev unless the
	// terminal asked for no color.
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty && !sysutil.IsTruthy(os.Getenv("NO_COLOR")) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svcVersion := sysutil.FirstNonEmpty(os.Getenv("SERVICE_VERSION"), version)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, svcVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.Dir).Msg("cannot create upload dir")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("cannot open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	gemini, err := studykit.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.MaxOutputTokens)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create generation client")
	}
	defer gemini.Close()

	generator := &studykit.Generator{
		Client:        gemini,
		Model:         cfg.Gemini.Model,
		FallbackModel: cfg.Gemini.FallbackModel,
		MaxAttempts:   cfg.Gemini.MaxAttempts,
		Backoff:       cfg.Gemini.RetryBackoff,
		PromptCap:     cfg.Gemini.MaxInputChars,
	}

	mailer, err := services.NewEmailService(ctx, cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create email service")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, generator, mailer, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", svcVersion).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
