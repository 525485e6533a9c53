// Command server runs the word-of-the-day backend: the HTTP query surface
// and, unless disabled, the in-process scheduler that generates, stores, and
// announces one new word per interval.
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

	"github.com/asukai/go-word-backend/internal/config"
	"github.com/asukai/go-word-backend/internal/gemini"
	httpapi "github.com/asukai/go-word-backend/internal/http"
	"github.com/asukai/go-word-backend/internal/observability"
	"github.com/asukai/go-word-backend/internal/pipeline"
	"github.com/asukai/go-word-backend/internal/repo"
	"github.com/asukai/go-word-backend/internal/scheduler"
	"github.com/asukai/go-word-backend/internal/services"
	"github.com/asukai/go-word-backend/internal/slack"
	"github.com/asukai/go-word-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments use the process environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	wordSvc := services.NewWordService(db, httpapi.WordRepoShim{})
	generator := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	notifier := slack.NewClient(cfg.Slack.BotToken, cfg.Slack.ChannelID, cfg.Slack.BaseURL)

	pipe := pipeline.New(wordSvc, generator, notifier)
	pipe.HistorySize = cfg.HistorySize

	var sched *scheduler.Scheduler
	if cfg.Schedule.Enabled {
		spec := sysutil.FirstNonEmpty(cfg.Schedule.Spec, cfg.Schedule.Interval.String())
		sched = scheduler.New(cfg.Schedule.Interval, spec)
		sched.Start(ctx, func(t pipeline.Trigger) {
			runCtx, cancelRun := context.WithTimeout(ctx, 5*time.Minute)
			defer cancelRun()
			pipe.Run(runCtx, t)
		})
		log.Info().Dur("interval", cfg.Schedule.Interval).Str("schedule", spec).
			Msg("scheduler started")
	} else {
		log.Info().Msg("scheduler disabled")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, notifier, cfg)

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
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	if sched != nil {
		sched.Stop()
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}
}
