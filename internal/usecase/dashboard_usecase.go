package usecase

import (
	"context"

	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
)

type dashboardUsecase struct {
	companies    domain.SaasCompanyRepository
	partners     domain.PartnerRepository
	partnerships domain.PartnershipRepository
}

func NewDashboardUsecase(companies domain.SaasCompanyRepository, partners domain.PartnerRepository, partnerships domain.PartnershipRepository) domain.DashboardUsecase {
	return &dashboardUsecase{
		companies:    companies,
		partners:     partners,
		partnerships: partnerships,
	}
}

// Summary gates the dashboard on onboarding: an incomplete account gets a redirect
// to the wizard and no counts.
func (u *dashboardUsecase) Summary(ctx context.Context, profileID string, role domain.Role) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		Role:         role,
		Partnerships: map[domain.PartnershipStatus]int{},
	}

	var (
		links []domain.Partnership
		err   error
	)
	switch role {
	case domain.RoleSaaS:
		company, loadErr := loadCompany(ctx, u.companies, profileID)
		if loadErr != nil {
			return nil, loadErr
		}
		summary.DisplayName = company.Name
		summary.OnboardingCompleted = company.HasRequiredFields()
		if !summary.OnboardingCompleted {
			summary.Redirect = role.OnboardingPath()
			return summary, nil
		}
		links, err = u.partnerships.ListBySaasID(ctx, company.ID)
	case domain.RoleAffiliate:
		partner, loadErr := loadPartner(ctx, u.partners, profileID)
		if loadErr != nil {
			return nil, loadErr
		}
		summary.DisplayName = partner.DisplayName()
		summary.OnboardingCompleted = partner.OnboardingCompleted
		if !summary.OnboardingCompleted {
			summary.Redirect = role.OnboardingPath()
			return summary, nil
		}
		links, err = u.partnerships.ListByPartnerID(ctx, partner.ID)
	default:
		return nil, apperror.Forbidden("Unknown account type")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	for _, link := range links {
		summary.Partnerships[link.Status]++
	}
	summary.TotalPartnerships = len(links)
	return summary, nil
}
