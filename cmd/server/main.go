package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orcamento/internal/config"
	"orcamento/internal/infra"
	"orcamento/internal/router"
	"orcamento/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// dev: pretty console, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	calendario, err := infra.CarregarCalendario(cfg.CalendarioPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CalendarioPath).Msg("failed to load holiday calendar")
	}

	r, calculoSvc := router.New(cfg, db, rdb, calendario)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	aguardarWorkers := worker.StartWorkerPool(ctx, rdb, worker.PoolConfig{
		Workers:       cfg.WorkerPoolSize,
		MaxTentativas: cfg.CalculoMaxTentativas,
		Recalculador:  calculoSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("orcamento listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	// a job in the middle of its backoff is put back on the queue before
	// its worker returns
	aguardarWorkers()
	log.Info().Msg("server exited")
}
