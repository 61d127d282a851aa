package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"partnerz-backend/config"
	"partnerz-backend/internal/queue"
	"partnerz-backend/internal/repository/postgres"
	"partnerz-backend/internal/worker"
	"partnerz-backend/pkg/database"
	"partnerz-backend/pkg/email"
	"partnerz-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// worker delivers the notification emails the API enqueues.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	base := logger.Init(cfg.LogMode, logger.Options{
		Dir:        cfg.LogDir,
		Filename:   "worker-" + cfg.LogFilename,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	defer logger.Sync()

	redisOpt, serverCfg, err := queue.BuildServerConfig(cfg)
	if err != nil {
		logger.Log.Errorw("Queue is not configured", "error", err)
		os.Exit(1)
	}
	serverCfg.Logger = base.Sugar()

	dbPool, err := database.NewPostgresConnection(context.Background(), cfg.DBUrl)
	if err != nil {
		logger.Log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	mailer := email.NewEmailService(cfg)
	if !mailer.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - notifications will be skipped")
	}

	consumer := worker.NewConsumer(
		postgres.NewProfileRepository(dbPool),
		postgres.NewSaasCompanyRepository(dbPool),
		postgres.NewPartnerRepository(dbPool),
		postgres.NewPartnershipRepository(dbPool),
		mailer,
		cfg.FrontendURL,
	)

	mux := asynq.NewServeMux()
	consumer.Register(mux)

	srv := asynq.NewServer(redisOpt, serverCfg)
	if err := srv.Start(mux); err != nil {
		logger.Log.Errorw("Worker failed to start", "error", err)
		os.Exit(1)
	}
	logger.Log.Infow("Worker started", "concurrency", serverCfg.Concurrency)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down worker...")
	srv.Shutdown()
}
