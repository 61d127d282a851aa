package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the account type a profile is registered as.
type Role string

const (
	RoleSaaS      Role = "saas"
	RoleAffiliate Role = "affiliate"
)

// ParseRole accepts "saas" or "affiliate" in any case.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSaaS:
		return RoleSaaS, true
	case RoleAffiliate:
		return RoleAffiliate, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) DashboardPath() string {
	return "/" + string(r) + "/dashboard"
}

func (r Role) OnboardingPath() string {
	return "/" + string(r) + "/onboarding"
}

func (r Role) ResetPasswordPath() string {
	return "/" + string(r) + "/reset-password"
}

// Counterpart is the role on the other side of the marketplace.
func (r Role) Counterpart() Role {
	if r == RoleSaaS {
		return RoleAffiliate
	}
	return RoleSaaS
}

// Profile is the one-per-identity record that fixes an account's role.
type Profile struct {
	ID               string    `json:"id"` // auth identity id
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	MarketingConsent bool      `json:"marketing_consent"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Identity is what a verified session says about the signed-in user.
type Identity struct {
	UserID   string
	Email    string
	Metadata map[string]interface{}
}

// MetadataRole returns the role stored in the account metadata at signup, if any.
func (i Identity) MetadataRole() string {
	if i.Metadata == nil {
		return ""
	}
	role, _ := i.Metadata["role"].(string)
	return role
}

func (i Identity) MarketingConsent() bool {
	if i.Metadata == nil {
		return false
	}
	switch v := i.Metadata["marketing_consent"].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	// Provision inserts the profile and an empty row in the table for its role
	// in one transaction.
	Provision(ctx context.Context, profile *Profile) error
}
