package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/logger"
	"partnerz-backend/pkg/security"
)

// AuthConfig holds the URLs the reconciliation flow sends users back to.
type AuthConfig struct {
	FrontendURL   string
	OAuthProvider string
}

type authUsecase struct {
	profiles domain.ProfileRepository
	rows     roleRows
	gateway  domain.AuthGateway
	cfg      AuthConfig
	secLog   *security.SecurityLogger
}

func NewAuthUsecase(
	profiles domain.ProfileRepository,
	companies domain.SaasCompanyRepository,
	partners domain.PartnerRepository,
	gateway domain.AuthGateway,
	cfg AuthConfig,
) domain.AuthUsecase {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.OAuthProvider == "" {
		cfg.OAuthProvider = "google"
	}
	return &authUsecase{
		profiles: profiles,
		rows:     roleRows{companies: companies, partners: partners},
		gateway:  gateway,
		cfg:      cfg,
		secLog:   security.DefaultLogger(),
	}
}

func (u *authUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	session, err := u.gateway.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		var gwErr *domain.GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode < http.StatusInternalServerError {
			if strings.EqualFold(gwErr.Message, "Email not confirmed") {
				return nil, apperror.Unauthorized("Email not confirmed. Please check your inbox.").WithAction(apperror.ActionCheckEmail)
			}
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Unavailable("Login service unavailable. Please try again.", err)
	}

	result, err := u.Reconcile(ctx, domain.ReconcileInput{
		Identity:    session.User,
		AccessToken: session.AccessToken,
		Role:        string(input.Role),
		AuthMode:    string(domain.IntentLogin),
	})
	if err != nil {
		return nil, err
	}

	result.RefreshToken = session.RefreshToken
	result.ExpiresIn = session.ExpiresIn
	u.secLog.LogAuthEvent(ctx, security.EventLoginSuccess, input.Email, map[string]interface{}{"role": result.Profile.Role})
	return result, nil
}

func (u *authUsecase) SignUp(ctx context.Context, input domain.SignUpInput) (*domain.AuthResult, error) {
	_, err := u.profiles.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperror.Conflict("User already registered. Please sign in instead.").WithAction(apperror.ActionSignIn)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	session, err := u.gateway.SignUp(ctx, domain.SignUpParams{
		Email:    input.Email,
		Password: input.Password,
		Metadata: map[string]interface{}{
			"role":              string(input.Role),
			"marketing_consent": input.MarketingConsent,
		},
		RedirectTo: u.callbackURL(input.Role.OnboardingPath(), domain.IntentSignup),
	})
	if err != nil {
		var gwErr *domain.GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode < http.StatusInternalServerError {
			if strings.Contains(strings.ToLower(gwErr.Message), "already registered") {
				return nil, apperror.Conflict("User already registered. Please sign in instead.").WithAction(apperror.ActionSignIn)
			}
			return nil, apperror.BadRequest(gwErr.Message)
		}
		return nil, apperror.Unavailable("Registration service unavailable. Please try again.", err)
	}

	u.secLog.LogAuthEvent(ctx, security.EventSignup, input.Email, map[string]interface{}{
		"role":            input.Role,
		"session_granted": session.AccessToken != "",
	})

	// Email confirmation pending: the profile is created when the link lands on /auth/callback.
	if session.AccessToken == "" {
		return &domain.AuthResult{PendingConfirmation: true}, nil
	}

	result, err := u.Reconcile(ctx, domain.ReconcileInput{
		Identity:    session.User,
		AccessToken: session.AccessToken,
		Role:        string(input.Role),
		AuthMode:    string(domain.IntentSignup),
	})
	if err != nil {
		return nil, err
	}
	result.RefreshToken = session.RefreshToken
	result.ExpiresIn = session.ExpiresIn
	return result, nil
}

// Reconcile matches a fresh session to its profile. It runs from scratch on every
// authentication event and ends the session on every rejection.
func (u *authUsecase) Reconcile(ctx context.Context, in domain.ReconcileInput) (*domain.AuthResult, error) {
	target, ok := domain.ResolveTargetRole(in.Role, in.Next, in.Identity.MetadataRole())
	if !ok {
		u.endSession(ctx, in.AccessToken)
		return nil, apperror.BadRequest("Unable to determine account type. Please start again from the login page.").
			WithAction(apperror.ActionReturnToLogin)
	}
	intent := domain.ResolveIntent(in.AuthMode, in.Next)

	created := false
	profile, err := u.profiles.GetByID(ctx, in.Identity.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if intent == domain.IntentLogin {
			return nil, u.rejectMissingAccount(ctx, in)
		}
		profile, created, err = u.provision(ctx, in.Identity, target, in.AccessToken)
		if err != nil {
			return nil, err
		}
	case err != nil:
		u.endSession(ctx, in.AccessToken)
		return nil, apperror.Unavailable("Unable to load your account. Please try again.", err)
	}

	if profile.Role != target {
		u.endSession(ctx, in.AccessToken)
		registered := string(profile.Role)
		if registered == "" {
			registered = "unknown"
		}
		u.secLog.LogAuthEvent(ctx, security.EventRoleMismatch, profile.Email, map[string]interface{}{
			"target":     target,
			"registered": registered,
		})
		return nil, apperror.Forbidden(fmt.Sprintf(
			"Invalid account type. You are trying to log in as %s, but your account is registered as %s.",
			target, registered,
		)).WithAction(apperror.ActionReturnToLogin)
	}

	result, err := u.resultFor(ctx, profile)
	if err != nil {
		return nil, err
	}
	result.AccessToken = in.AccessToken
	result.Created = created
	return result, nil
}

// SelectRole serves the role selection page: an identity with a profile keeps it,
// one without gets the chosen role.
func (u *authUsecase) SelectRole(ctx context.Context, identity domain.Identity, accessToken string, role domain.Role) (*domain.AuthResult, error) {
	if !role.Valid() {
		return nil, apperror.BadRequest("role must be saas or affiliate")
	}

	profile, err := u.profiles.GetByID(ctx, identity.UserID)
	created := false
	switch {
	case errors.Is(err, domain.ErrNotFound):
		profile, created, err = u.provision(ctx, identity, role, accessToken)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, apperror.Unavailable("Unable to load your account. Please try again.", err)
	}

	result, err := u.resultFor(ctx, profile)
	if err != nil {
		return nil, err
	}
	result.Created = created
	return result, nil
}

// OAuthURL builds the provider URL. The callback carries next and auth_mode so
// Reconcile can recover the target role and intent after the redirect.
func (u *authUsecase) OAuthURL(role domain.Role, intent domain.AuthIntent) string {
	next := role.DashboardPath()
	if intent == domain.IntentSignup {
		next = role.OnboardingPath()
	}
	return u.gateway.AuthorizeURL(u.cfg.OAuthProvider, u.callbackURL(next, intent))
}

// ForgotPassword sends a recovery email when the address belongs to a profile.
// Unknown addresses succeed silently.
func (u *authUsecase) ForgotPassword(ctx context.Context, email string, role domain.Role) error {
	profile, err := u.profiles.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	target := profile.Role
	if !target.Valid() {
		target = role
	}
	if err := u.gateway.RecoverPassword(ctx, profile.Email, u.cfg.FrontendURL+target.ResetPasswordPath()); err != nil {
		return err
	}
	u.secLog.LogAuthEvent(ctx, security.EventPasswordReset, profile.Email, map[string]interface{}{"role": target})
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, accessToken, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperror.BadRequest("Passwords do not match")
	}
	if len(newPassword) < 6 {
		return apperror.BadRequest("Password must be at least 6 characters")
	}

	if err := u.gateway.UpdatePassword(ctx, accessToken, newPassword); err != nil {
		var gwErr *domain.GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode < http.StatusInternalServerError {
			if gwErr.StatusCode == http.StatusUnauthorized || gwErr.StatusCode == http.StatusForbidden {
				return apperror.Unauthorized("Reset link is invalid or has expired").WithAction(apperror.ActionReturnToLogin)
			}
			return apperror.BadRequest(gwErr.Message)
		}
		return apperror.Unavailable("Password reset failed. Please try again.", err)
	}
	return nil
}

// Logout is best effort: the client drops its tokens either way.
func (u *authUsecase) Logout(ctx context.Context, accessToken string) error {
	u.endSession(ctx, accessToken)
	return nil
}

func (u *authUsecase) GetCurrentProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := u.profiles.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Forbidden("No profile exists for this account. Please sign in again.").
			WithAction(apperror.ActionReturnToLogin)
	}
	if err != nil {
		return nil, apperror.Unavailable("Unable to load your account. Please try again.", err)
	}
	return profile, nil
}

func (u *authUsecase) Me(ctx context.Context, id string) (*domain.AuthResult, error) {
	profile, err := u.GetCurrentProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.resultFor(ctx, profile)
}

// provision creates the profile and its role row. A concurrent callback that won the
// race is read back instead of failing.
func (u *authUsecase) provision(ctx context.Context, identity domain.Identity, role domain.Role, accessToken string) (*domain.Profile, bool, error) {
	profile := &domain.Profile{
		ID:               identity.UserID,
		Email:            identity.Email,
		Role:             role,
		MarketingConsent: identity.MarketingConsent(),
	}

	err := u.profiles.Provision(ctx, profile)
	if err == nil {
		u.secLog.LogAuthEvent(ctx, security.EventProvisioned, identity.Email, map[string]interface{}{"role": role})
		return profile, true, nil
	}

	if errors.Is(err, domain.ErrConflict) {
		if existing, getErr := u.profiles.GetByID(ctx, identity.UserID); getErr == nil {
			return existing, false, nil
		}
	}

	u.endSession(ctx, accessToken)
	u.secLog.LogAuthEvent(ctx, security.EventProvisioningFailed, identity.Email, map[string]interface{}{
		"role":  role,
		"error": err.Error(),
	})
	return nil, false, apperror.New(http.StatusInternalServerError,
		"We could not finish creating your account. Please try again.", err).
		WithAction(apperror.ActionRetry)
}

// rejectMissingAccount handles a login for an identity that never signed up here.
// Identities without a signup role in their metadata were created by the OAuth login
// itself and are removed again.
func (u *authUsecase) rejectMissingAccount(ctx context.Context, in domain.ReconcileInput) error {
	u.endSession(ctx, in.AccessToken)

	orphan := in.Identity.MetadataRole() == ""
	if orphan {
		if err := u.gateway.DeleteUser(ctx, in.Identity.UserID); err != nil {
			logger.Log.Warnw("failed to delete orphaned auth identity", "user_id", in.Identity.UserID, "error", err)
		} else {
			u.secLog.LogAuthEvent(ctx, security.EventOrphanDeleted, in.Identity.Email, nil)
		}
	}

	u.secLog.LogAuthEvent(ctx, security.EventAccountNotFound, in.Identity.Email, map[string]interface{}{"orphan": orphan})
	return apperror.NotFound("No account found. Please sign up first.").WithAction(apperror.ActionSignUp)
}

func (u *authUsecase) resultFor(ctx context.Context, profile *domain.Profile) (*domain.AuthResult, error) {
	onboarded, err := u.rows.onboarded(ctx, profile.Role, profile.ID)
	if err != nil {
		return nil, apperror.Unavailable("Unable to load your account. Please try again.", err)
	}
	return &domain.AuthResult{
		Profile:  profile,
		Redirect: landingPath(profile.Role, onboarded),
	}, nil
}

func (u *authUsecase) callbackURL(next string, intent domain.AuthIntent) string {
	return fmt.Sprintf("%s/auth/callback?next=%s&auth_mode=%s", u.cfg.FrontendURL, next, intent)
}

func (u *authUsecase) endSession(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	if err := u.gateway.SignOut(ctx, accessToken); err != nil {
		logger.Log.Warnw("failed to end session", "error", err)
	}
}
