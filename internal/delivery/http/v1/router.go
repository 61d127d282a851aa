package v1

import (
	"net/http"
	"time"

	"partnerz-backend/config"
	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/delivery/ws"
	"partnerz-backend/internal/domain"
	"partnerz-backend/internal/usecase"
	"partnerz-backend/pkg/redis"
	"partnerz-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	OnboardingUC  domain.OnboardingUsecase
	SettingsUC    domain.SettingsUsecase
	MarketplaceUC domain.MarketplaceUsecase
	ChatUC        domain.ChatUsecase
	DashboardUC   domain.DashboardUsecase
	HealthUC      usecase.HealthUsecase
	Verifier      middleware.TokenVerifier
	Hub           *ws.Hub
	Config        *config.Config
	// ImageHosts are extra origins allowed in img-src, e.g. the public storage host.
	ImageHosts []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()
	r.MaxMultipartMemory = cfg.UploadMaxBytes + 1<<20

	// CORS must be first so preflights and error responses carry the headers.
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.IsProduction()))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.ImageHosts...))
	r.Use(middleware.ErrorHandler())

	globalLimit := middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)
	globalLimit.Client = redis.Client
	r.Use(middleware.RateLimitMiddleware(globalLimit))
	r.Use(middleware.CSRFMiddleware(cfg.IsProduction()))

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Hub != nil {
		v1.GET("/ws", deps.Hub.ServeWS)
	}

	authLimit := middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window)
	authLimit.Client = redis.Client
	authPublic := v1.Group("")
	authPublic.Use(middleware.RateLimitMiddleware(authLimit))

	// session routes only need a valid token; the profile may not exist yet
	session := v1.Group("")
	session.Use(middleware.SessionMiddleware(deps.Verifier))

	protected := v1.Group("")
	protected.Use(middleware.SessionMiddleware(deps.Verifier), middleware.ProfileMiddleware(deps.AuthUC))

	saas := protected.Group("/saas")
	saas.Use(middleware.RequireRole(domain.RoleSaaS))

	affiliate := protected.Group("/affiliate")
	affiliate.Use(middleware.RequireRole(domain.RoleAffiliate))

	uploadLimiter := security.NewUploadLimiter(redis.Client, cfg.UploadPerMinute, cfg.UploadPerDay)

	loginGuard := security.NewLoginTracker(redis.Client, security.DefaultLoginTrackerConfig())

	NewAuthHandler(authPublic, session, protected, deps.AuthUC, deps.Verifier, loginGuard, cfg)
	NewOnboardingHandler(saas, affiliate, deps.OnboardingUC)
	NewSettingsHandler(saas, affiliate, deps.SettingsUC, cfg.UploadMaxBytes, middleware.UploadRateLimitMiddleware(uploadLimiter))
	NewDashboardHandler(saas, affiliate, deps.DashboardUC)
	NewMarketplaceHandler(protected, saas, affiliate, deps.MarketplaceUC)
	NewChatHandler(protected, deps.ChatUC)

	return r
}
