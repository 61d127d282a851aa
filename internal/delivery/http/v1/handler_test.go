package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"partnerz-backend/config"
	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/domain"
	"partnerz-backend/internal/mocks"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*auth.Claims, error) {
	if token != "valid-token" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: "user-1", Email: "owner@acme.test", UserMetadata: map[string]interface{}{"role": "saas"}}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Action string `json:"action"`
	} `json:"error"`
}

type testGroups struct {
	engine    *gin.Engine
	public    *gin.RouterGroup
	protected *gin.RouterGroup
	saas      *gin.RouterGroup
	affiliate *gin.RouterGroup
}

// newTestGroups wires the error handler and a fake session for userID/role.
func newTestGroups(userID string, role domain.Role) testGroups {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())

	public := r.Group("/v1")
	protected := r.Group("/v1", func(c *gin.Context) {
		c.Set(string(domain.KeyUserID), userID)
		c.Set(string(domain.KeyUserRole), string(role))
		c.Set(string(domain.KeyAccessToken), "valid-token")
		c.Next()
	})
	return testGroups{
		engine:    r,
		public:    public,
		protected: protected,
		saas:      protected.Group("/saas"),
		affiliate: protected.Group("/affiliate"),
	}
}

func doJSON(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// ============================================================================
// Auth
// ============================================================================

func newAuthTest(uc *mocks.AuthUsecase) testGroups {
	return newAuthTestWithGuard(uc, nil)
}

func newAuthTestWithGuard(uc *mocks.AuthUsecase, guard LoginGuard) testGroups {
	g := newTestGroups("user-1", domain.RoleSaaS)
	NewAuthHandler(g.public, g.protected, g.protected, uc, stubVerifier{}, guard, &config.Config{GinMode: "release"})
	return g
}

type fakeGuard struct {
	blocked  bool
	failures int
	cleared  int
}

func (f *fakeGuard) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	return f.blocked, nil
}

func (f *fakeGuard) RecordFailedAttempt(ctx context.Context, email, ip, requestID string) (bool, int, error) {
	f.failures++
	return false, f.failures, nil
}

func (f *fakeGuard) ClearAttempts(ctx context.Context, email, ip string) error {
	f.cleared++
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success sets the session cookie", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		input := domain.LoginInput{Email: "owner@acme.test", Password: "secret1", Role: domain.RoleSaaS}
		uc.On("Login", mock.Anything, input).Return(&domain.AuthResult{
			AccessToken: "access",
			ExpiresIn:   3600,
			Redirect:    "/saas/dashboard",
		}, nil)

		g := newAuthTest(uc)
		w, env := doJSON(g.engine, http.MethodPost, "/v1/auth/login", `{"email":"owner@acme.test","password":"secret1","role":"saas"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		cookie := w.Result().Cookies()
		require.Len(t, cookie, 1)
		assert.Equal(t, "auth_token", cookie[0].Name)
		assert.Equal(t, "access", cookie[0].Value)
		assert.True(t, cookie[0].HttpOnly)
		assert.True(t, cookie[0].Secure)
	})

	t.Run("missing role is rejected before the usecase", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		g := newAuthTest(uc)

		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/login", `{"email":"owner@acme.test","password":"secret1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("usecase error carries the action", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		uc.On("Login", mock.Anything, mock.Anything).Return(nil,
			apperror.NotFound("No account found. Please sign up first.").WithAction(apperror.ActionSignUp))

		g := newAuthTest(uc)
		w, env := doJSON(g.engine, http.MethodPost, "/v1/auth/login", `{"email":"new@acme.test","password":"secret1","role":"affiliate"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, apperror.ActionSignUp, env.Error.Action)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestAuthHandler_LoginGuard(t *testing.T) {
	body := `{"email":"owner@acme.test","password":"wrong","role":"saas"}`

	t.Run("blocked address never reaches the gateway", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		g := newAuthTestWithGuard(uc, &fakeGuard{blocked: true})

		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/login", body)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		uc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("bad credentials are counted", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		uc.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Unauthorized("Invalid email or password"))
		guard := &fakeGuard{}
		g := newAuthTestWithGuard(uc, guard)

		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/login", body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 1, guard.failures)
		assert.Zero(t, guard.cleared)
	})

	t.Run("role mismatch is not a credential failure", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		uc.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Forbidden("Invalid account type."))
		guard := &fakeGuard{}
		g := newAuthTestWithGuard(uc, guard)

		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/login", body)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Zero(t, guard.failures)
	})

	t.Run("success clears the counter", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		uc.On("Login", mock.Anything, mock.Anything).Return(&domain.AuthResult{AccessToken: "access"}, nil)
		guard := &fakeGuard{}
		g := newAuthTestWithGuard(uc, guard)

		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/login", body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, guard.cleared)
	})
}

func TestAuthHandler_SignUp(t *testing.T) {
	t.Run("pending confirmation answers 202", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		uc.On("SignUp", mock.Anything, mock.Anything).Return(&domain.AuthResult{PendingConfirmation: true}, nil)

		g := newAuthTest(uc)
		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/signup", `{"email":"a@acme.test","password":"secret1","role":"saas"}`)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("short password", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		g := newAuthTest(uc)

		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/signup", `{"email":"a@acme.test","password":"123","role":"saas"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Callback(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		g := newAuthTest(uc)

		w, env := doJSON(g.engine, http.MethodPost, "/v1/auth/callback", `{"access_token":"forged"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.ActionReturnToLogin, env.Error.Action)
		uc.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
	})

	t.Run("passes redirect context to reconcile", func(t *testing.T) {
		uc := new(mocks.AuthUsecase)
		uc.On("Reconcile", mock.Anything, mock.MatchedBy(func(in domain.ReconcileInput) bool {
			return in.Identity.UserID == "user-1" &&
				in.Next == "/saas/onboarding" &&
				in.AuthMode == "signup" &&
				in.AccessToken == "valid-token"
		})).Return(&domain.AuthResult{AccessToken: "valid-token", Redirect: "/saas/onboarding", Created: true}, nil)

		g := newAuthTest(uc)
		w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/callback",
			`{"access_token":"valid-token","next":"/saas/onboarding","auth_mode":"signup"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})
}

func TestAuthHandler_OAuthURL(t *testing.T) {
	uc := new(mocks.AuthUsecase)
	uc.On("OAuthURL", domain.RoleAffiliate, domain.IntentSignup).Return("https://auth.test/authorize")
	g := newAuthTest(uc)

	w, env := doJSON(g.engine, http.MethodGet, "/v1/auth/oauth/url?role=affiliate&mode=signup", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "https://auth.test/authorize")

	w, _ = doJSON(g.engine, http.MethodGet, "/v1/auth/oauth/url?role=admin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	prev := forgotPasswordTarget
	forgotPasswordTarget = 0
	defer func() { forgotPasswordTarget = prev }()

	uc := new(mocks.AuthUsecase)
	uc.On("ForgotPassword", mock.Anything, "known@acme.test", domain.Role("")).Return(nil)
	uc.On("ForgotPassword", mock.Anything, "broken@acme.test", domain.Role("")).Return(errors.New("smtp down"))
	g := newAuthTest(uc)

	w1, env1 := doJSON(g.engine, http.MethodPost, "/v1/auth/forgot-password", `{"email":"known@acme.test"}`)
	w2, env2 := doJSON(g.engine, http.MethodPost, "/v1/auth/forgot-password", `{"email":"broken@acme.test"}`)

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, forgotPasswordMessage, env1.Message)
	assert.Equal(t, env1.Message, env2.Message)
}

func TestWaitUntil(t *testing.T) {
	start := time.Now()
	waitUntil(start, 30*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestAuthHandler_Logout(t *testing.T) {
	uc := new(mocks.AuthUsecase)
	uc.On("Logout", mock.Anything, "valid-token").Return(nil)
	g := newAuthTest(uc)

	w, _ := doJSON(g.engine, http.MethodPost, "/v1/auth/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

// ============================================================================
// Onboarding, settings, dashboard
// ============================================================================

func TestOnboardingHandler_CompleteSaas(t *testing.T) {
	uc := new(mocks.OnboardingUsecase)
	uc.On("CompleteSaasOnboarding", mock.Anything, "user-1", mock.MatchedBy(func(in domain.SaasOnboardingInput) bool {
		return in.Name == "Acme" && in.CommissionRate != nil && in.CommissionRate.String() == "25"
	})).Return(&domain.SaasCompany{ID: "c1", Name: "Acme", OnboardingCompleted: true}, nil)

	g := newTestGroups("user-1", domain.RoleSaaS)
	NewOnboardingHandler(g.saas, g.affiliate, uc)

	w, env := doJSON(g.engine, http.MethodPost, "/v1/saas/onboarding",
		`{"name":"Acme","description":"CRM","website":"https://acme.test","commission_rate":25}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"redirect":"/saas/dashboard"`)
	uc.AssertExpectations(t)
}

func TestOnboardingHandler_CompleteAffiliate_ValidationError(t *testing.T) {
	uc := new(mocks.OnboardingUsecase)
	uc.On("CompleteAffiliateOnboarding", mock.Anything, "user-2", mock.Anything).
		Return(nil, apperror.BadRequest("Bio is required"))

	g := newTestGroups("user-2", domain.RoleAffiliate)
	NewOnboardingHandler(g.saas, g.affiliate, uc)

	w, env := doJSON(g.engine, http.MethodPost, "/v1/affiliate/onboarding", `{"bio":"","skills":"seo, ads"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bio is required", env.Message)
}

func multipartUpload(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if withFile {
		part, err := mw.CreateFormFile("file", "logo.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestSettingsHandler_UploadLogo(t *testing.T) {
	passthrough := func(c *gin.Context) { c.Next() }

	t.Run("crop fields reach the usecase", func(t *testing.T) {
		uc := new(mocks.SettingsUsecase)
		uc.On("UploadCompanyLogo", mock.Anything, "user-1", mock.MatchedBy(func(up domain.ImageUpload) bool {
			return up.Filename == "logo.png" &&
				up.Crop != nil && up.Crop.X == 10 && up.Crop.Width == 200 && up.Crop.Height == 100 &&
				up.Aspect == 2
		})).Return("https://cdn.test/logos/user-1-1.jpg", nil)

		g := newTestGroups("user-1", domain.RoleSaaS)
		NewSettingsHandler(g.saas, g.affiliate, uc, 1<<20, passthrough)

		body, contentType := multipartUpload(t, map[string]string{"x": "10", "y": "0", "width": "200", "height": "100", "aspect": "2"}, true)
		req := httptest.NewRequest(http.MethodPost, "/v1/saas/settings/logo", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		g.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "user-1-1.jpg")
		uc.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		uc := new(mocks.SettingsUsecase)
		g := newTestGroups("user-1", domain.RoleSaaS)
		NewSettingsHandler(g.saas, g.affiliate, uc, 1<<20, passthrough)

		body, contentType := multipartUpload(t, map[string]string{"x": "1"}, false)
		req := httptest.NewRequest(http.MethodPost, "/v1/saas/settings/logo", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		g.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "UploadCompanyLogo", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSettingsHandler_UpdateAffiliate(t *testing.T) {
	uc := new(mocks.SettingsUsecase)
	uc.On("UpdateAffiliateSettings", mock.Anything, "user-2", mock.MatchedBy(func(in domain.AffiliateSettingsInput) bool {
		return in.Niche == "fitness" && in.PreferredCurrency == "usd"
	})).Return(&domain.Partner{ID: "p1"}, nil)

	g := newTestGroups("user-2", domain.RoleAffiliate)
	NewSettingsHandler(g.saas, g.affiliate, uc, 0, func(c *gin.Context) { c.Next() })

	w, _ := doJSON(g.engine, http.MethodPut, "/v1/affiliate/settings", `{"niche":"fitness","preferred_currency":"usd"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestDashboardHandler_Summary(t *testing.T) {
	uc := new(mocks.DashboardUsecase)
	uc.On("Summary", mock.Anything, "user-2", domain.RoleAffiliate).Return(&domain.DashboardSummary{
		Role:     domain.RoleAffiliate,
		Redirect: "/affiliate/onboarding",
	}, nil)

	g := newTestGroups("user-2", domain.RoleAffiliate)
	NewDashboardHandler(g.saas, g.affiliate, uc)

	w, env := doJSON(g.engine, http.MethodGet, "/v1/affiliate/dashboard", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "/affiliate/onboarding")
}

// ============================================================================
// Marketplace and chat
// ============================================================================

func TestMarketplaceHandler_ListPartners(t *testing.T) {
	uc := new(mocks.MarketplaceUsecase)
	filter := domain.PartnerFilter{Query: "fit", Niche: "fitness", Platform: "youtube", Country: "DE"}
	uc.On("PartnerMarketplace", mock.Anything, "user-1", filter).Return(&domain.PartnerMarketplace{
		Connected: []domain.ConnectedPartner{},
		Available: []domain.PartnerListing{},
	}, nil)

	g := newTestGroups("user-1", domain.RoleSaaS)
	NewMarketplaceHandler(g.protected, g.saas, g.affiliate, uc)

	w, _ := doJSON(g.engine, http.MethodGet, "/v1/saas/marketplace?q=fit&niche=fitness&platform=youtube&country=DE", "")

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestMarketplaceHandler_ConnectConflict(t *testing.T) {
	uc := new(mocks.MarketplaceUsecase)
	uc.On("ConnectWithProgram", mock.Anything, "user-2", "c1").Return(nil, apperror.Conflict("A partnership request already exists"))

	g := newTestGroups("user-2", domain.RoleAffiliate)
	NewMarketplaceHandler(g.protected, g.saas, g.affiliate, uc)

	w, _ := doJSON(g.engine, http.MethodPost, "/v1/affiliate/marketplace/c1/connect", "")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMarketplaceHandler_Respond(t *testing.T) {
	uc := new(mocks.MarketplaceUsecase)
	uc.On("RespondToRequest", mock.Anything, "user-1", domain.RoleSaaS, "ps1", domain.StatusActive).
		Return(&domain.Partnership{ID: "ps1", Status: domain.StatusActive}, nil)

	g := newTestGroups("user-1", domain.RoleSaaS)
	NewMarketplaceHandler(g.protected, g.saas, g.affiliate, uc)

	w, _ := doJSON(g.engine, http.MethodPatch, "/v1/partnerships/ps1", `{"status":"active"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(g.engine, http.MethodPatch, "/v1/partnerships/ps1", `{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "RespondToRequest", 1)
}

func TestMarketplaceHandler_ExportPartners(t *testing.T) {
	uc := new(mocks.MarketplaceUsecase)
	uc.On("ExportPartners", mock.Anything, "user-1").Return([]byte("xlsx-bytes"), "partners_20260101.xlsx", nil)

	g := newTestGroups("user-1", domain.RoleSaaS)
	NewMarketplaceHandler(g.protected, g.saas, g.affiliate, uc)

	req := httptest.NewRequest(http.MethodGet, "/v1/saas/partners/export", nil)
	w := httptest.NewRecorder()
	g.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="partners_20260101.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

func TestChatHandler_ListMessages(t *testing.T) {
	before := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := new(mocks.ChatUsecase)
	uc.On("ListMessages", mock.Anything, "user-1", domain.RoleSaaS, "ps1", mock.MatchedBy(func(b *time.Time) bool {
		return b != nil && b.Equal(before)
	}), 20).Return([]domain.Message{{ID: "m1", Body: "hi"}}, nil)

	g := newTestGroups("user-1", domain.RoleSaaS)
	NewChatHandler(g.protected, uc)

	w, env := doJSON(g.engine, http.MethodGet, "/v1/partnerships/ps1/messages?limit=20&before=2026-03-01T12:00:00Z", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"m1"`)

	w, _ = doJSON(g.engine, http.MethodGet, "/v1/partnerships/ps1/messages?before=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_SendMessage(t *testing.T) {
	uc := new(mocks.ChatUsecase)
	uc.On("SendMessage", mock.Anything, "user-2", domain.RoleAffiliate, "ps1", "hello").
		Return(&domain.Message{ID: "m2", PartnershipID: "ps1", SenderID: "user-2", Body: "hello"}, nil)

	g := newTestGroups("user-2", domain.RoleAffiliate)
	NewChatHandler(g.protected, uc)

	w, _ := doJSON(g.engine, http.MethodPost, "/v1/partnerships/ps1/messages", `{"body":"hello"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(g.engine, http.MethodPost, "/v1/partnerships/ps1/messages", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
