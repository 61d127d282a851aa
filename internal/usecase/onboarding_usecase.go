package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var maxCommissionRate = decimal.NewFromInt(100)

type onboardingUsecase struct {
	companies domain.SaasCompanyRepository
	partners  domain.PartnerRepository
	validate  *validator.Validate
}

func NewOnboardingUsecase(companies domain.SaasCompanyRepository, partners domain.PartnerRepository, validate *validator.Validate) domain.OnboardingUsecase {
	return &onboardingUsecase{
		companies: companies,
		partners:  partners,
		validate:  validate,
	}
}

// ============================================================================
// SaaS wizard
// ============================================================================

func (u *onboardingUsecase) GetSaasOnboarding(ctx context.Context, ownerID string) (*domain.SaasCompany, error) {
	return loadCompany(ctx, u.companies, ownerID)
}

func (u *onboardingUsecase) CompleteSaasOnboarding(ctx context.Context, ownerID string, input domain.SaasOnboardingInput) (*domain.SaasCompany, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	rate := domain.DefaultCommissionRate
	if input.CommissionRate != nil {
		rate = *input.CommissionRate
	}
	if err := checkCommissionRate(rate); err != nil {
		return nil, err
	}

	company, err := loadCompany(ctx, u.companies, ownerID)
	if err != nil {
		return nil, err
	}

	company.Name = strings.TrimSpace(input.Name)
	company.Description = domain.OptionalString(input.Description)
	company.Website = domain.OptionalString(input.Website)
	company.CommissionRate = rate
	company.OnboardingCompleted = company.HasRequiredFields()

	if err := u.companies.Update(ctx, company); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save company details", err)
	}
	return company, nil
}

// ============================================================================
// Affiliate wizard
// ============================================================================

func (u *onboardingUsecase) GetAffiliateOnboarding(ctx context.Context, profileID string) (*domain.Partner, error) {
	return loadPartner(ctx, u.partners, profileID)
}

func (u *onboardingUsecase) CompleteAffiliateOnboarding(ctx context.Context, profileID string, input domain.AffiliateOnboardingInput) (*domain.Partner, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	partner, err := loadPartner(ctx, u.partners, profileID)
	if err != nil {
		return nil, err
	}

	partner.Bio = domain.OptionalString(input.Bio)
	partner.Skills = []string(domain.CleanList(input.Skills))
	partner.OnboardingCompleted = true

	if err := u.partners.Update(ctx, partner); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save partner details", err)
	}
	return partner, nil
}

// ============================================================================
// Shared helpers
// ============================================================================

// loadCompany reads the caller's company. Provisioning always creates it, so a
// missing row means the account is broken rather than new.
func loadCompany(ctx context.Context, companies domain.SaasCompanyRepository, ownerID string) (*domain.SaasCompany, error) {
	company, err := companies.GetByOwnerID(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Company profile not found").WithAction(apperror.ActionReturnToLogin)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return company, nil
}

func loadPartner(ctx context.Context, partners domain.PartnerRepository, profileID string) (*domain.Partner, error) {
	partner, err := partners.GetByProfileID(ctx, profileID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Partner profile not found").WithAction(apperror.ActionReturnToLogin)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return partner, nil
}

func checkCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxCommissionRate) {
		return apperror.BadRequest("Commission rate must be between 0 and 100")
	}
	return nil
}

func validationError(err error) error {
	msgs := validation.FormatValidationErrors(err)
	if len(msgs) == 0 {
		return apperror.BadRequest("Validation failed: " + err.Error())
	}
	return apperror.BadRequest(strings.Join(msgs, "; "))
}
