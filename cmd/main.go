package main

import (
	"context"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"payment-report-service/internal/config"
	"payment-report-service/internal/controller"
	"payment-report-service/internal/db"
	httpserver "payment-report-service/internal/http"
	"payment-report-service/internal/logger"
	"payment-report-service/internal/report"
	"payment-report-service/internal/repository"
	"payment-report-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("payment-report-service", "info")
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New("payment-report-service", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	repo := repository.NewPaymentRepository(conn)
	worker := service.NewBatchPaymentWorker(repo, log, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	engine := report.NewEngine(repo, log)
	paymentService := service.NewPaymentService(worker, engine, cfg.FutureTolerance)
	paymentController := controller.NewPaymentController(paymentService)

	server := httpserver.NewServer(cfg, paymentController)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}

	worker.Shutdown()
}
