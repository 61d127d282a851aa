package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partnerz-backend/config"
	_ "partnerz-backend/docs" // Important for Swagger
	v1 "partnerz-backend/internal/delivery/http/v1"
	"partnerz-backend/internal/delivery/ws"
	"partnerz-backend/internal/queue"
	"partnerz-backend/internal/repository/postgres"
	"partnerz-backend/internal/repository/supabase"
	"partnerz-backend/internal/usecase"
	"partnerz-backend/pkg/auth"
	"partnerz-backend/pkg/database"
	"partnerz-backend/pkg/logger"
	"partnerz-backend/pkg/redis"
	"partnerz-backend/pkg/security"
	"partnerz-backend/pkg/storage"
	"partnerz-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Partnerz.ai API
// @version         1.0
// @description     Backend for the Partnerz.ai partner marketplace.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	base := logger.Init(cfg.LogMode, logger.Options{
		Dir:        cfg.LogDir,
		Filename:   cfg.LogFilename,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	defer logger.Sync()
	security.InitSecurityLogger(base, "partnerz-api", cfg.GinMode)
	logger.Log.Infow("Starting partnerz backend", "port", cfg.Port, "mode", cfg.GinMode)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Redis backs rate limiting; without it the limiters fall back to memory
	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warnw("Redis unavailable, using in-memory rate limiting", "error", err)
	} else {
		defer redis.Close()
	}

	// 5. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	companyRepo := postgres.NewSaasCompanyRepository(dbPool)
	partnerRepo := postgres.NewPartnerRepository(dbPool)
	partnershipRepo := postgres.NewPartnershipRepository(dbPool)
	messageRepo := postgres.NewMessageRepository(dbPool)

	// 6. External services
	gateway := supabase.NewAuthGateway(cfg.SupabaseUrl, cfg.SupabaseKey, cfg.SupabaseServiceRoleKey)

	objects, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Log.Warnw("Object storage not configured - uploads will be unavailable", "error", err)
	}

	queueClient, err := queue.NewClient(cfg)
	if err != nil {
		logger.Log.Warnw("Notification queue unavailable - connect emails are disabled", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}
	defer queueClient.Close()

	// 7. Auth (JWKS for asymmetric keys, the JWT secret for legacy HS256 projects)
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	verifier := auth.NewVerifier(auth.NewProvider(jwksURL), cfg.SupabaseJWTSecret)
	hub := ws.NewHub(verifier, cfg.AllowedOrigins)
	defer hub.Close()

	// 8. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(profileRepo, companyRepo, partnerRepo, gateway, usecase.AuthConfig{
		FrontendURL:   cfg.FrontendURL,
		OAuthProvider: cfg.OAuthProvider,
	})
	onboardingUC := usecase.NewOnboardingUsecase(companyRepo, partnerRepo, validate)
	settingsUC := usecase.NewSettingsUsecase(companyRepo, partnerRepo, objects, validate)
	marketplaceUC := usecase.NewMarketplaceUsecase(companyRepo, partnerRepo, partnershipRepo, queueClient)
	chatUC := usecase.NewChatUsecase(companyRepo, partnerRepo, partnershipRepo, messageRepo, hub)
	dashboardUC := usecase.NewDashboardUsecase(companyRepo, partnerRepo, partnershipRepo)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": dbPool.Ping,
	})

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		OnboardingUC:  onboardingUC,
		SettingsUC:    settingsUC,
		MarketplaceUC: marketplaceUC,
		ChatUC:        chatUC,
		DashboardUC:   dashboardUC,
		HealthUC:      healthUC,
		Verifier:      verifier,
		Hub:           hub,
		Config:        cfg,
		ImageHosts:    imageHosts(cfg),
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorw("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func imageHosts(cfg *config.Config) []string {
	var hosts []string
	if cfg.SupabaseUrl != "" {
		hosts = append(hosts, cfg.SupabaseUrl)
	}
	if cfg.S3PublicBaseURL != "" {
		hosts = append(hosts, cfg.S3PublicBaseURL)
	}
	return hosts
}
