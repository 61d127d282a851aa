package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"partnerz-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID   = "6f1c2d8e-4b7a-4e0f-9a52-1d3c5b7e9f01"
	partnerID = "0b9e8d7c-6a5f-4e3d-8c2b-1a0f9e8d7c6b"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "owner@acme.io", body["email"])

		_, _ = w.Write([]byte(`{
			"access_token": "at",
			"refresh_token": "rt",
			"expires_in": 3600,
			"user": {"id": "6f1c2d8e-4b7a-4e0f-9a52-1d3c5b7e9f01", "email": "owner@acme.io", "user_metadata": {"role": "saas"}}
		}`))
	}))
	defer srv.Close()

	g := NewAuthGateway(srv.URL, "anon", "")
	session, err := g.SignInWithPassword(context.Background(), "owner@acme.io", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "rt", session.RefreshToken)
	assert.Equal(t, 3600, session.ExpiresIn)
	assert.Equal(t, ownerID, session.User.UserID)
	assert.Equal(t, "saas", session.User.MetadataRole())
}

func TestSignInErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	_, err := NewAuthGateway(srv.URL, "anon", "").SignInWithPassword(context.Background(), "a@b.io", "x")

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "Invalid login credentials", gwErr.Message)
}

func TestSignUpWithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "https://app.partnerz.ai/auth/callback?next=/affiliate/onboarding&auth_mode=signup", r.URL.Query().Get("redirect_to"))

		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "affiliate", body.Data["role"])

		_, _ = w.Write([]byte(`{"id": "` + partnerID + `", "email": "p@x.io", "user_metadata": {"role": "affiliate"}}`))
	}))
	defer srv.Close()

	g := NewAuthGateway(srv.URL, "anon", "")
	session, err := g.SignUp(context.Background(), domain.SignUpParams{
		Email:      "p@x.io",
		Password:   "secret1",
		Metadata:   map[string]interface{}{"role": "affiliate"},
		RedirectTo: "https://app.partnerz.ai/auth/callback?next=/affiliate/onboarding&auth_mode=signup",
	})
	require.NoError(t, err)
	assert.Empty(t, session.AccessToken)
	assert.Equal(t, partnerID, session.User.UserID)
}

func TestSignOutAndUpdatePasswordUseBearer(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path+" "+r.Header.Get("Authorization"))
		if r.URL.Path == "/auth/v1/logout" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id": "` + ownerID + `", "email": "owner@acme.io"}`))
	}))
	defer srv.Close()

	g := NewAuthGateway(srv.URL, "anon", "")
	require.NoError(t, g.SignOut(context.Background(), "tok"))
	require.NoError(t, g.UpdatePassword(context.Background(), "tok", "newpass"))
	require.NoError(t, g.SignOut(context.Background(), ""))

	assert.Equal(t, []string{
		"POST /auth/v1/logout Bearer tok",
		"PUT /auth/v1/user Bearer tok",
	}, calls)
}

func TestDeleteUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/"+partnerID, r.URL.Path)
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		assert.Equal(t, "service", r.Header.Get("apikey"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	require.NoError(t, NewAuthGateway(srv.URL, "anon", "service").DeleteUser(context.Background(), partnerID))
	assert.ErrorIs(t, NewAuthGateway(srv.URL, "anon", "").DeleteUser(context.Background(), partnerID), ErrServiceRoleKeyMissing)
	assert.Error(t, NewAuthGateway(srv.URL, "anon", "service").DeleteUser(context.Background(), "not-a-uuid"))
}

func TestRecoverPasswordCarriesRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/recover", r.URL.Path)
		assert.Equal(t, "https://app.partnerz.ai/saas/reset-password", r.URL.Query().Get("redirect_to"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "owner@acme.io", body["email"])
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := NewAuthGateway(srv.URL, "anon", "").RecoverPassword(context.Background(), "owner@acme.io", "https://app.partnerz.ai/saas/reset-password")
	require.NoError(t, err)
}

func TestTransportFailureIsNotGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewAuthGateway(srv.URL, "anon", "").SignInWithPassword(context.Background(), "a@b.io", "x")

	require.Error(t, err)
	var gwErr *domain.GatewayError
	assert.False(t, errors.As(err, &gwErr))
}

func TestGatewayErrorParsesStatus(t *testing.T) {
	err := gatewayError(fmt.Errorf("response status code 422: %s", `{"code":422,"msg":"User already registered"}`))

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, 422, gwErr.StatusCode)
	assert.Equal(t, "User already registered", gwErr.Message)
}

func TestAuthorizeURL(t *testing.T) {
	g := NewAuthGateway("https://proj.supabase.co/", "anon", "")
	raw := g.AuthorizeURL("google", "https://app.partnerz.ai/auth/callback?next=/saas/dashboard&auth_mode=login")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "proj.supabase.co", u.Host)
	assert.Equal(t, "/auth/v1/authorize", u.Path)
	assert.Equal(t, "google", u.Query().Get("provider"))
	assert.Equal(t, "https://app.partnerz.ai/auth/callback?next=/saas/dashboard&auth_mode=login", u.Query().Get("redirect_to"))
}
