package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"partnerz-backend/config"
	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/logger"
	"partnerz-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// forgotPasswordTarget is the minimum response time of forgot-password, so known and
// unknown addresses cannot be told apart by timing.
var forgotPasswordTarget = 2 * time.Second

const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

// LoginGuard blocks an address after repeated failed password logins.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

type AuthHandler struct {
	authUC       domain.AuthUsecase
	verifier     middleware.TokenVerifier
	guard        LoginGuard
	secureCookie bool
}

// NewAuthHandler registers the auth routes. public routes carry the strict auth rate
// limit, session routes need a token but no profile, protected routes need both.
// guard may be nil.
func NewAuthHandler(public, session, protected *gin.RouterGroup, authUC domain.AuthUsecase, verifier middleware.TokenVerifier, guard LoginGuard, cfg *config.Config) {
	handler := &AuthHandler{
		authUC:       authUC,
		verifier:     verifier,
		guard:        guard,
		secureCookie: cfg.IsProduction(),
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/signup", handler.SignUp)
		publicAuth.POST("/callback", handler.Callback)
		publicAuth.GET("/oauth/url", handler.OAuthURL)
		publicAuth.POST("/forgot-password", handler.ForgotPassword)
		publicAuth.POST("/reset-password", handler.ResetPassword)
	}

	sessionAuth := session.Group("/auth")
	{
		sessionAuth.POST("/role-selection", handler.SelectRole)
		sessionAuth.POST("/logout", handler.Logout)
	}

	protected.GET("/auth/me", handler.Me)
}

type CallbackRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
	Next        string `json:"next"`
	AuthMode    string `json:"auth_mode"`
	Role        string `json:"role"`
}

type RoleSelectionRequest struct {
	Role domain.Role `json:"role" binding:"required,oneof=saas affiliate"`
}

type ForgotPasswordRequest struct {
	Email string      `json:"email" binding:"required,email"`
	Role  domain.Role `json:"role" binding:"omitempty,oneof=saas affiliate"`
}

type ResetPasswordRequest struct {
	AccessToken     string `json:"access_token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Login godoc
// @Summary      Password login
// @Description  Signs in with email and password, then checks the profile role against the requested role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginInput  true  "Credentials and target role"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()
	requestID := c.GetString("RequestID")

	if h.guard != nil {
		blocked, err := h.guard.IsBlocked(ctx, req.Email, ip)
		if err != nil {
			logger.Log.Warnw("login guard check failed", "error", err)
		}
		if blocked {
			c.Error(apperror.TooManyRequests("Too many failed login attempts. Please try again later."))
			return
		}
	}

	result, err := h.authUC.Login(ctx, req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
			security.DefaultLogger().LogLoginFailed(ctx, req.Email, ip, c.GetHeader("User-Agent"), requestID, appErr.Message)
			if h.guard != nil {
				if _, _, gerr := h.guard.RecordFailedAttempt(ctx, req.Email, ip, requestID); gerr != nil {
					logger.Log.Warnw("login guard record failed", "error", gerr)
				}
			}
		}
		c.Error(err)
		return
	}
	if h.guard != nil {
		_ = h.guard.ClearAttempts(ctx, req.Email, ip)
	}

	h.setSessionCookie(c, result)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// SignUp godoc
// @Summary      Email signup
// @Description  Creates the auth identity. When email confirmation is on, the profile is created on the confirmation callback.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SignUpInput  true  "Signup details"
// @Success      201      {object}  response.Response{data=domain.AuthResult}
// @Success      202      {object}  response.Response{data=domain.AuthResult}
// @Failure      409      {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.authUC.SignUp(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	if result.PendingConfirmation {
		response.Success(c, http.StatusAccepted, "Check your email to confirm your account.", result)
		return
	}
	h.setSessionCookie(c, result)
	response.Success(c, http.StatusCreated, "Account created", result)
}

// Callback godoc
// @Summary      Auth callback
// @Description  Reconciles a session from OAuth or an email link with its profile. next and auth_mode are the query parameters the frontend received.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      CallbackRequest  true  "Session and redirect context"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /auth/callback [post]
func (h *AuthHandler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	claims, err := h.verifier.Verify(req.AccessToken)
	if err != nil {
		c.Error(apperror.Unauthorized("Session expired or invalid. Please sign in again.").WithAction(apperror.ActionReturnToLogin))
		return
	}

	result, err := h.authUC.Reconcile(c.Request.Context(), domain.ReconcileInput{
		Identity:    domain.Identity{UserID: claims.UserID, Email: claims.Email, Metadata: claims.UserMetadata},
		AccessToken: req.AccessToken,
		Role:        req.Role,
		Next:        req.Next,
		AuthMode:    req.AuthMode,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, result)
	response.Success(c, http.StatusOK, "Authenticated", result)
}

// OAuthURL godoc
// @Summary      OAuth authorize URL
// @Tags         auth
// @Produce      json
// @Param        role  query     string  true   "saas or affiliate"
// @Param        mode  query     string  false  "login (default) or signup"
// @Success      200   {object}  response.Response
// @Router       /auth/oauth/url [get]
func (h *AuthHandler) OAuthURL(c *gin.Context) {
	role, ok := domain.ParseRole(c.Query("role"))
	if !ok {
		c.Error(apperror.BadRequest("role must be saas or affiliate"))
		return
	}
	intent := domain.ResolveIntent(c.Query("mode"), "")

	response.Success(c, http.StatusOK, "OK", gin.H{"url": h.authUC.OAuthURL(role, intent)})
}

// SelectRole godoc
// @Summary      Role selection
// @Description  Provisions a profile with the chosen role for a signed-in identity that has none.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      RoleSelectionRequest  true  "Chosen role"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Router       /auth/role-selection [post]
func (h *AuthHandler) SelectRole(c *gin.Context) {
	var req RoleSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.authUC.SelectRole(c.Request.Context(), middleware.Identity(c), middleware.AccessToken(c), req.Role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Account ready", result)
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUC.Logout(c.Request.Context(), middleware.AccessToken(c)); err != nil {
		c.Error(err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", "", -1, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current account
// @Description  Returns the profile and where the frontend should send the user.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.AuthResult}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.authUC.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", result)
}

// ForgotPassword godoc
// @Summary      Request password reset
// @Description  Always answers with the same message after the same minimum delay.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ForgotPasswordRequest  true  "Email address"
// @Success      200      {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	start := time.Now()

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.authUC.ForgotPassword(c.Request.Context(), req.Email, req.Role); err != nil {
		logger.Log.Warnw("forgot password failed", "email", security.MaskEmail(req.Email), "error", err)
	}

	waitUntil(start, forgotPasswordTarget)
	response.Success(c, http.StatusOK, forgotPasswordMessage, nil)
}

// ResetPassword godoc
// @Summary      Set a new password
// @Description  Uses the recovery session from the reset email link.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ResetPasswordRequest  true  "Recovery token and new password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.authUC.ResetPassword(c.Request.Context(), req.AccessToken, req.NewPassword, req.ConfirmPassword); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated. Please sign in with your new password.", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, result *domain.AuthResult) {
	if result == nil || result.AccessToken == "" {
		return
	}
	maxAge := result.ExpiresIn
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", result.AccessToken, maxAge, "/", "", h.secureCookie, true)
}

func waitUntil(start time.Time, target time.Duration) {
	if remaining := target - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
}
