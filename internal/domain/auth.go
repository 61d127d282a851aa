package domain

import (
	"context"
	"fmt"
	"strings"
)

// AuthIntent says whether an authentication event is a login or a signup.
type AuthIntent string

const (
	IntentLogin  AuthIntent = "login"
	IntentSignup AuthIntent = "signup"
)

// SanitizeNext keeps only same-origin relative paths and drops any query or fragment.
func SanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	if i := strings.IndexAny(next, "?#"); i >= 0 {
		next = next[:i]
	}
	return next
}

// ResolveTargetRole picks the role an authentication event is aimed at: an explicit
// role first, then the first segment of the next path, then the account metadata.
func ResolveTargetRole(explicit, next, metadataRole string) (Role, bool) {
	if r, ok := ParseRole(explicit); ok {
		return r, true
	}
	path := strings.TrimPrefix(SanitizeNext(next), "/")
	if r, ok := ParseRole(strings.SplitN(path, "/", 2)[0]); ok {
		return r, true
	}
	return ParseRole(metadataRole)
}

// ResolveIntent reads auth_mode when it is valid. Otherwise a next path that lands on
// onboarding or signup marks a signup and everything else is a login.
func ResolveIntent(mode, next string) AuthIntent {
	switch AuthIntent(strings.ToLower(strings.TrimSpace(mode))) {
	case IntentLogin:
		return IntentLogin
	case IntentSignup:
		return IntentSignup
	}
	path := SanitizeNext(next)
	if strings.HasSuffix(path, "/onboarding") || strings.HasSuffix(path, "/signup") {
		return IntentSignup
	}
	return IntentLogin
}

// AuthSession is a session issued by the auth gateway. AccessToken is empty when
// signup is waiting on email confirmation.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         Identity
}

// GatewayError is a non-2xx answer from the auth gateway.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("auth gateway: %d %s", e.StatusCode, e.Message)
}

type SignUpParams struct {
	Email      string
	Password   string
	Metadata   map[string]interface{}
	RedirectTo string
}

// AuthGateway is the hosted authentication service.
type AuthGateway interface {
	SignUp(ctx context.Context, params SignUpParams) (*AuthSession, error)
	SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	DeleteUser(ctx context.Context, userID string) error
	RecoverPassword(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	AuthorizeURL(provider, redirectTo string) string
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required,oneof=saas affiliate"`
}

type SignUpInput struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	Role             Role   `json:"role" binding:"required,oneof=saas affiliate"`
	MarketingConsent bool   `json:"marketing_consent"`
}

// ReconcileInput carries a verified session plus the context that crossed the
// redirect boundary.
type ReconcileInput struct {
	Identity    Identity
	AccessToken string
	Role        string
	Next        string
	AuthMode    string
}

type AuthResult struct {
	AccessToken         string   `json:"token,omitempty"`
	RefreshToken        string   `json:"refresh_token,omitempty"`
	ExpiresIn           int      `json:"expires_in,omitempty"`
	Profile             *Profile `json:"profile,omitempty"`
	Redirect            string   `json:"redirect,omitempty"`
	Created             bool     `json:"created"`
	PendingConfirmation bool     `json:"pending_confirmation,omitempty"`
}

type AuthUsecase interface {
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	Reconcile(ctx context.Context, input ReconcileInput) (*AuthResult, error)
	SelectRole(ctx context.Context, identity Identity, accessToken string, role Role) (*AuthResult, error)
	OAuthURL(role Role, intent AuthIntent) string
	ForgotPassword(ctx context.Context, email string, role Role) error
	ResetPassword(ctx context.Context, accessToken, newPassword, confirmPassword string) error
	Logout(ctx context.Context, accessToken string) error
	GetCurrentProfile(ctx context.Context, id string) (*Profile, error)
	Me(ctx context.Context, id string) (*AuthResult, error)
}
