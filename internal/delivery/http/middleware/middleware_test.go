package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/domain"
	"partnerz-backend/internal/mocks"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s stubVerifier) Verify(string) (*auth.Claims, error) {
	return s.claims, s.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerRendersAction(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("No account found. Please sign up first.").WithAction(apperror.ActionSignUp))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "sign_up", body["error"].(map[string]interface{})["action"])
	assert.NotEmpty(t, body["request_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "pong", nil)
	})

	const id = "0b6c3c43-7f5e-4c5b-9d0f-8a3a2f1e9c11"
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, id)
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	assert.Equal(t, id, decode(t, w)["request_id"])

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestSessionMiddleware(t *testing.T) {
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "token": AccessToken(c), "meta": Identity(c).MetadataRole()})
	}

	t.Run("missing token", func(t *testing.T) {
		r := gin.New()
		r.GET("/me", SessionMiddleware(stubVerifier{}), handler)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		r := gin.New()
		r.GET("/me", SessionMiddleware(stubVerifier{err: auth.ErrInvalidToken}), handler)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "return_to_login", decode(t, w)["error"].(map[string]interface{})["action"])
	})

	t.Run("cookie token", func(t *testing.T) {
		verifier := stubVerifier{claims: &auth.Claims{UserID: "u1", Email: "a@b.io", UserMetadata: map[string]interface{}{"role": "saas"}}}
		r := gin.New()
		r.GET("/me", SessionMiddleware(verifier), handler)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "u1", body["user"])
		assert.Equal(t, "tok", body["token"])
		assert.Equal(t, "saas", body["meta"])
	})
}

func TestProfileAndRoleMiddleware(t *testing.T) {
	authUC := new(mocks.AuthUsecase)
	authUC.On("GetCurrentProfile", mock.Anything, "u1").Return(&domain.Profile{ID: "u1", Role: domain.RoleAffiliate}, nil)
	authUC.On("GetCurrentProfile", mock.Anything, "u2").
		Return(nil, apperror.Forbidden("No profile exists for this account. Please sign in again.").WithAction(apperror.ActionReturnToLogin))

	withUser := func(id string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set(ctxUserID, id) }
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	r.GET("/saas/:id", func(c *gin.Context) { c.Set(ctxUserID, c.Param("id")) }, ProfileMiddleware(authUC), RequireRole(domain.RoleSaaS), ok)
	r.GET("/affiliate", withUser("u1"), ProfileMiddleware(authUC), RequireRole(domain.RoleAffiliate), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/affiliate", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/saas/u1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/saas/u2", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "return_to_login", decode(t, w)["error"].(map[string]interface{})["action"])
}

func TestRateLimitMiddlewareMemoryFallback(t *testing.T) {
	cfg := AuthRateLimitConfig(2, time.Minute)
	cfg.Client = func() *goredis.Client { return nil }

	r := gin.New()
	r.POST("/login", RateLimitMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://partnerz.ai/"}, true))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://partnerz.ai")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://partnerz.ai", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("http://localhost:3000")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCSRFMiddlewareCookieSessions(t *testing.T) {
	r := gin.New()
	r.Use(CSRFMiddleware(false))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
	req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "abc"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
	req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "abc"})
	req.Header.Set(CSRFTokenHeaderName, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
