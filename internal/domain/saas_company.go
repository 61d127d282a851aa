package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCompanyName is the placeholder name a SaaS account is provisioned with.
const DefaultCompanyName = "My Company"

// Program defaults shown when a field was never saved.
const (
	DefaultCommissionModel = "20% Recurring"
	DefaultCookieDuration  = 30
	DefaultTrackingMethod  = "Link Tracking"
	DefaultGeoRestrictions = "Global"
	DefaultLanguage        = "English"
)

var DefaultCommissionRate = decimal.NewFromInt(20)

// SaasCompany is the role row of a SaaS account and doubles as its affiliate program.
type SaasCompany struct {
	ID                  string          `json:"id"`
	OwnerID             string          `json:"owner_id"`
	Name                string          `json:"name"`
	LogoURL             *string         `json:"logo_url"`
	Website             *string         `json:"website"`
	Description         *string         `json:"description"`
	ShortDescription    *string         `json:"short_description"`
	LongDescription     *string         `json:"long_description"`
	Category            *string         `json:"category"`
	YearFounded         *int            `json:"year_founded"`
	CommissionModel     *string         `json:"commission_model"`
	CommissionRate      decimal.Decimal `json:"commission_rate"`
	CookieDuration      *int            `json:"cookie_duration"`
	LandingPageURL      *string         `json:"landing_page_url"`
	TrackingMethod      *string         `json:"tracking_method"`
	PartnerProgramURL   *string         `json:"partner_program_url"`
	ExclusiveDeal       *string         `json:"exclusive_deal"`
	TechnicalContact    *string         `json:"technical_contact"`
	GeoRestrictions     *string         `json:"geo_restrictions"`
	SupportedLanguages  []string        `json:"supported_languages"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// HasRequiredFields reports whether the company carries everything onboarding asks for.
func (c *SaasCompany) HasRequiredFields() bool {
	return strings.TrimSpace(c.Name) != "" &&
		nonEmpty(c.Website) &&
		(nonEmpty(c.Description) || nonEmpty(c.ShortDescription))
}

// ApplyDefaults fills unset program fields with the values the settings form starts from.
func (c *SaasCompany) ApplyDefaults(now time.Time) {
	if c.YearFounded == nil {
		year := now.Year()
		c.YearFounded = &year
	}
	if !nonEmpty(c.CommissionModel) {
		c.CommissionModel = strPtr(DefaultCommissionModel)
	}
	if c.CommissionRate.IsZero() {
		c.CommissionRate = DefaultCommissionRate
	}
	if c.CookieDuration == nil {
		days := DefaultCookieDuration
		c.CookieDuration = &days
	}
	if !nonEmpty(c.TrackingMethod) {
		c.TrackingMethod = strPtr(DefaultTrackingMethod)
	}
	if !nonEmpty(c.GeoRestrictions) {
		c.GeoRestrictions = strPtr(DefaultGeoRestrictions)
	}
	if len(c.SupportedLanguages) == 0 {
		c.SupportedLanguages = []string{DefaultLanguage}
	}
}

// ProgramListing is what affiliates see of a company in the marketplace.
type ProgramListing struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	LogoURL            *string         `json:"logo_url"`
	Website            *string         `json:"website"`
	Description        *string         `json:"description"`
	ShortDescription   *string         `json:"short_description"`
	Category           *string         `json:"category"`
	CommissionModel    *string         `json:"commission_model"`
	CommissionRate     decimal.Decimal `json:"commission_rate"`
	CookieDuration     *int            `json:"cookie_duration"`
	GeoRestrictions    *string         `json:"geo_restrictions"`
	SupportedLanguages []string        `json:"supported_languages"`
	ExclusiveDeal      *string         `json:"exclusive_deal"`
}

func (c *SaasCompany) Listing() ProgramListing {
	return ProgramListing{
		ID:                 c.ID,
		Name:               c.Name,
		LogoURL:            c.LogoURL,
		Website:            c.Website,
		Description:        c.Description,
		ShortDescription:   c.ShortDescription,
		Category:           c.Category,
		CommissionModel:    c.CommissionModel,
		CommissionRate:     c.CommissionRate,
		CookieDuration:     c.CookieDuration,
		GeoRestrictions:    c.GeoRestrictions,
		SupportedLanguages: c.SupportedLanguages,
		ExclusiveDeal:      c.ExclusiveDeal,
	}
}

// CompanyFilter narrows the program list shown to affiliates.
type CompanyFilter struct {
	Query    string
	Category string
}

type SaasCompanyRepository interface {
	GetByOwnerID(ctx context.Context, ownerID string) (*SaasCompany, error)
	GetByID(ctx context.Context, id string) (*SaasCompany, error)
	List(ctx context.Context, filter CompanyFilter) ([]SaasCompany, error)
	// Update writes every editable column, keyed by owner_id.
	Update(ctx context.Context, company *SaasCompany) error
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func strPtr(s string) *string {
	return &s
}

// OptionalString returns nil for blank input so the column is cleared.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
