package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"partnerz-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

const requestTimeout = 10 * time.Second

// ErrServiceRoleKeyMissing is returned by admin calls when no service role key is set.
var ErrServiceRoleKeyMissing = errors.New("supabase: service role key not configured")

type authGateway struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	transport      http.RoundTripper
}

// NewAuthGateway talks to the GoTrue API of a Supabase project.
func NewAuthGateway(baseURL, anonKey, serviceRoleKey string) domain.AuthGateway {
	return &authGateway{
		baseURL:        strings.TrimRight(baseURL, "/"),
		anonKey:        anonKey,
		serviceRoleKey: serviceRoleKey,
		transport:      http.DefaultTransport,
	}
}

// callTransport carries what the client API has no parameter for: the request
// context and GoTrue's redirect_to query parameter.
type callTransport struct {
	ctx        context.Context
	redirectTo string
	base       http.RoundTripper
}

func (t callTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if t.redirectTo != "" {
		q := req.URL.Query()
		q.Set("redirect_to", t.redirectTo)
		req.URL.RawQuery = q.Encode()
	}
	return t.base.RoundTrip(req)
}

// client builds a GoTrue client for one call. bearer is sent as the Authorization token.
func (g *authGateway) client(ctx context.Context, apiKey, bearer, redirectTo string) gotrue.Client {
	c := gotrue.New("", apiKey).
		WithCustomGoTrueURL(g.baseURL + "/auth/v1").
		WithClient(http.Client{
			Timeout:   requestTimeout,
			Transport: callTransport{ctx: ctx, redirectTo: redirectTo, base: g.transport},
		})
	if bearer != "" {
		c = c.WithToken(bearer)
	}
	return c
}

func identityOf(u types.User) domain.Identity {
	return domain.Identity{UserID: u.ID.String(), Email: u.Email, Metadata: u.UserMetadata}
}

func sessionOf(s types.Session) *domain.AuthSession {
	return &domain.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         identityOf(s.User),
	}
}

func (g *authGateway) SignUp(ctx context.Context, params domain.SignUpParams) (*domain.AuthSession, error) {
	resp, err := g.client(ctx, g.anonKey, "", params.RedirectTo).Signup(types.SignupRequest{
		Email:    params.Email,
		Password: params.Password,
		Data:     params.Metadata,
	})
	if err != nil {
		return nil, gatewayError(err)
	}

	// Email confirmation pending: GoTrue answers with the bare user and no session.
	if resp.AccessToken == "" {
		return &domain.AuthSession{User: identityOf(resp.User)}, nil
	}
	return sessionOf(resp.Session), nil
}

func (g *authGateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	resp, err := g.client(ctx, g.anonKey, "", "").Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, gatewayError(err)
	}
	return sessionOf(resp.Session), nil
}

// SignOut revokes the session's refresh tokens.
func (g *authGateway) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := g.client(ctx, g.anonKey, accessToken, "").Logout(); err != nil {
		return gatewayError(err)
	}
	return nil
}

// DeleteUser removes an auth identity through the admin API.
func (g *authGateway) DeleteUser(ctx context.Context, userID string) error {
	if g.serviceRoleKey == "" {
		return ErrServiceRoleKeyMissing
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("supabase: invalid user id %q: %w", userID, err)
	}
	if err := g.client(ctx, g.serviceRoleKey, g.serviceRoleKey, "").AdminDeleteUser(types.AdminDeleteUserRequest{UserID: id}); err != nil {
		return gatewayError(err)
	}
	return nil
}

func (g *authGateway) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	if err := g.client(ctx, g.anonKey, "", redirectTo).Recover(types.RecoverRequest{Email: email}); err != nil {
		return gatewayError(err)
	}
	return nil
}

func (g *authGateway) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	_, err := g.client(ctx, g.anonKey, accessToken, "").UpdateUser(types.UpdateUserRequest{Password: &newPassword})
	if err != nil {
		return gatewayError(err)
	}
	return nil
}

// AuthorizeURL is where the browser starts an OAuth flow. GoTrue sends it back to
// redirectTo with the session in the URL fragment. The browser follows it, so no
// request is made here.
func (g *authGateway) AuthorizeURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	q.Set("redirect_to", redirectTo)
	return g.baseURL + "/auth/v1/authorize?" + q.Encode()
}

// The client reports non-2xx answers as "response status code N: <body>".
var statusErrPattern = regexp.MustCompile(`(?s)^response status code (\d+)(?:: (.*))?$`)

// gatewayError maps a client error onto GatewayError when GoTrue answered, and wraps
// transport failures as they are.
func gatewayError(err error) error {
	m := statusErrPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return fmt.Errorf("supabase auth request failed: %w", err)
	}
	code, _ := strconv.Atoi(m[1])
	return &domain.GatewayError{StatusCode: code, Message: errorMessage([]byte(m[2]))}
}

// errorMessage reads GoTrue's error shapes: {msg}, {error_description} or {message}.
func errorMessage(raw []byte) string {
	var errResp map[string]interface{}
	if err := json.Unmarshal(raw, &errResp); err == nil {
		for _, key := range []string{"msg", "error_description", "message", "error"} {
			if m, ok := errResp[key].(string); ok && m != "" {
				return m
			}
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return "request failed"
}
