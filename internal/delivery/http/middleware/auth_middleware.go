package middleware

import (
	"errors"
	"strings"

	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/auth"
	"partnerz-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID      = string(domain.KeyUserID)
	ctxUserEmail   = string(domain.KeyUserEmail)
	ctxUserRole    = string(domain.KeyUserRole)
	ctxAccessToken = string(domain.KeyAccessToken)
	ctxIdentity    = string(domain.KeyIdentity)
	ctxRequestID   = "RequestID"
)

// TokenVerifier checks an access token issued by the auth gateway.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SessionMiddleware requires a valid access token from the Authorization header or the
// auth_token cookie. It does not require a profile, so callback and role selection can
// run for identities that have none yet.
func SessionMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abortWithError(c, apperror.Unauthorized("Authorization header or auth_token cookie required").
				WithAction(apperror.ActionReturnToLogin))
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventUnauthorizedAccess,
				IP:        c.ClientIP(),
				UserAgent: c.GetHeader("User-Agent"),
				RequestID: c.GetString(ctxRequestID),
				Details:   map[string]interface{}{"path": c.FullPath(), "error": err.Error()},
			})
			abortWithError(c, apperror.Unauthorized("Session expired or invalid. Please sign in again.").
				WithAction(apperror.ActionReturnToLogin))
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxAccessToken, token)
		c.Set(ctxIdentity, domain.Identity{UserID: claims.UserID, Email: claims.Email, Metadata: claims.UserMetadata})
		c.Next()
	}
}

// ProfileMiddleware loads the caller's profile. The role always comes from the
// profile row, never from token metadata.
func ProfileMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := authUC.GetCurrentProfile(c.Request.Context(), c.GetString(ctxUserID))
		if err != nil {
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				appErr = apperror.Internal(err)
			}
			abortWithError(c, appErr)
			return
		}
		c.Set(ctxUserRole, string(profile.Role))
		c.Next()
	}
}

// RequireRole restricts a route group to one account type.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			abortWithError(c, apperror.Forbidden("This area is only available to "+string(role)+" accounts"))
			return
		}
		c.Next()
	}
}

// BearerToken reads the access token from the Authorization header or the auth_token cookie.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func Role(c *gin.Context) domain.Role {
	return domain.Role(c.GetString(ctxUserRole))
}

func AccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}

func Identity(c *gin.Context) domain.Identity {
	identity, _ := c.Get(ctxIdentity)
	id, _ := identity.(domain.Identity)
	return id
}
