package usecase

import (
	"context"
	"errors"

	"partnerz-backend/internal/domain"
)

// roleRows reads the role-specific row behind a profile.
type roleRows struct {
	companies domain.SaasCompanyRepository
	partners  domain.PartnerRepository
}

// onboarded reports whether the role row is complete. A missing row counts as not onboarded.
func (r roleRows) onboarded(ctx context.Context, role domain.Role, profileID string) (bool, error) {
	switch role {
	case domain.RoleSaaS:
		company, err := r.companies.GetByOwnerID(ctx, profileID)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return company.HasRequiredFields(), nil
	case domain.RoleAffiliate:
		partner, err := r.partners.GetByProfileID(ctx, profileID)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return partner.OnboardingCompleted, nil
	}
	return false, nil
}

// landingPath is the dashboard once onboarding is done, the wizard before that.
func landingPath(role domain.Role, onboarded bool) string {
	if onboarded {
		return role.DashboardPath()
	}
	return role.OnboardingPath()
}
