package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motofix/internal/config"
	"motofix/internal/infra"
	"motofix/internal/repository"
	"motofix/internal/router"
	"motofix/internal/service"
	"motofix/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title                      MotoFix API
// @version                    1.0
// @description                Point of sale and workshop back office for a motorcycle repair shop.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the access token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty console in development, JSON in production.
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
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

	// Worker handlers are wired here (composition root) so the pool reaches
	// the same repositories the HTTP side uses.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	breaker := infra.NewBreaker(infra.DefaultBreakerConfig())
	dispatcher := worker.NewDispatcher(rdb)

	saleRepo := repository.NewSaleRepository(db)
	receipts := service.NewReceiptService(
		saleRepo,
		repository.NewProductRepository(db),
		repository.NewServiceRepository(db),
		cfg.ShopName,
		cfg.ReceiptStoragePath,
	)

	workerHandlers := &worker.Handlers{
		Receipt: worker.NewReceiptWorker(receipts, dispatcher, mailer.Enabled()),
		Email:   worker.NewEmailWorker(mailer, breaker),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
	worker.StartStockWatch(ctx, repository.NewReportRepository(db))

	if !mailer.Enabled() {
		log.Warn().Msg("SMTP_HOST not set, receipts will not be e-mailed")
	}

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("env", cfg.Env).Str("invoice_strategy", cfg.InvoiceStrategy).
			Msgf("motofix backend listening on :%d", cfg.Port)
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
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
