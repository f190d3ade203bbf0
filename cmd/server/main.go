package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"student-coach/handler"
	"student-coach/internal/config"
	"student-coach/internal/integrations/openai"
	"student-coach/internal/repository"
	"student-coach/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := repository.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := repository.InitSchema(db); err != nil {
		log.Fatal().Err(err).Msg("failed to init schema")
	}

	historyStore, err := repository.NewHistoryStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create history store")
	}
	trackerStore, err := repository.NewTrackerStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create tracker store")
	}

	llm, err := openai.NewClient(cfg.OpenAIAPIKey, openai.WithBaseURL(cfg.OpenAIBaseURL))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create OpenAI client")
	}

	coach, err := usecase.NewCoachService(llm, historyStore, cfg.OpenAIModel,
		usecase.WithHistoryWindow(cfg.HistoryWindow),
		usecase.WithTemperature(cfg.Temperature),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create coach service")
	}

	h, err := handler.New(coach, trackerStore, cfg.AllowedOrigins, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create handler")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("db", cfg.DBPath).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
