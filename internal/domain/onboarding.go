package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Onboarding
// ============================================================================

type SaasOnboardingInput struct {
	Name           string           `json:"name" validate:"required,max=120,no_emoji"`
	Description    string           `json:"description" validate:"required,max=2000"`
	Website        string           `json:"website" validate:"required,url,max=500"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

type AffiliateOnboardingInput struct {
	Bio    string     `json:"bio" validate:"required,max=1000"`
	Skills StringList `json:"skills" validate:"max=30,dive,max=60"`
}

type OnboardingUsecase interface {
	GetSaasOnboarding(ctx context.Context, ownerID string) (*SaasCompany, error)
	CompleteSaasOnboarding(ctx context.Context, ownerID string, input SaasOnboardingInput) (*SaasCompany, error)
	GetAffiliateOnboarding(ctx context.Context, profileID string) (*Partner, error)
	CompleteAffiliateOnboarding(ctx context.Context, profileID string, input AffiliateOnboardingInput) (*Partner, error)
}

// ============================================================================
// Settings
// ============================================================================

type SaasSettingsInput struct {
	Name               string          `json:"name" validate:"required,max=120,no_emoji"`
	LogoURL            string          `json:"logo_url" validate:"omitempty,url,max=1000"`
	Website            string          `json:"website" validate:"omitempty,url,max=500"`
	Description        string          `json:"description" validate:"max=2000"`
	ShortDescription   string          `json:"short_description" validate:"max=280"`
	LongDescription    string          `json:"long_description" validate:"max=5000"`
	Category           string          `json:"category" validate:"max=80"`
	YearFounded        int             `json:"year_founded" validate:"omitempty,min=1900,max_current_year"`
	CommissionModel    string          `json:"commission_model" validate:"max=120"`
	CommissionRate     decimal.Decimal `json:"commission_rate"`
	CookieDuration     int             `json:"cookie_duration" validate:"min=0,max=3650"`
	LandingPageURL     string          `json:"landing_page_url" validate:"omitempty,url,max=500"`
	TrackingMethod     string          `json:"tracking_method" validate:"max=80"`
	PartnerProgramURL  string          `json:"partner_program_url" validate:"omitempty,url,max=500"`
	ExclusiveDeal      string          `json:"exclusive_deal" validate:"max=500"`
	TechnicalContact   string          `json:"technical_contact" validate:"max=200"`
	GeoRestrictions    string          `json:"geo_restrictions" validate:"max=200"`
	SupportedLanguages StringList      `json:"supported_languages" validate:"max=30,dive,max=40"`
}

type AffiliateSettingsInput struct {
	FullName          string `json:"full_name" validate:"max=120,valid_name"`
	AvatarURL         string `json:"avatar_url" validate:"omitempty,url,max=1000"`
	Phone             string `json:"phone" validate:"valid_phone"`
	Country           string `json:"country" validate:"max=80"`
	PromotionPlatform string `json:"promotion_platform" validate:"max=80"`
	PlatformURL       string `json:"platform_url" validate:"omitempty,url,max=500"`
	AudienceSize      string `json:"audience_size" validate:"max=80"`
	Niche             string `json:"niche" validate:"max=120"`
	PaymentMethod     string `json:"payment_method" validate:"max=80"`
	PaymentDetails    string `json:"payment_details" validate:"max=500"`
	TaxInfo           string `json:"tax_info" validate:"max=200"`
	PreferredCurrency string `json:"preferred_currency" validate:"currency_code"`
}

// CropRect is a crop area in source image pixels.
type CropRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageUpload is a raw image plus an optional crop. Without a crop the largest
// centered area with the given aspect ratio is used.
type ImageUpload struct {
	Filename string
	Data     []byte
	Crop     *CropRect
	Aspect   float64
}

// ObjectStorage stores public objects and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
}

type SettingsUsecase interface {
	GetSaasSettings(ctx context.Context, ownerID string) (*SaasCompany, error)
	UpdateSaasSettings(ctx context.Context, ownerID string, input SaasSettingsInput) (*SaasCompany, error)
	GetAffiliateSettings(ctx context.Context, profileID string) (*Partner, error)
	UpdateAffiliateSettings(ctx context.Context, profileID string, input AffiliateSettingsInput) (*Partner, error)
	UploadCompanyLogo(ctx context.Context, ownerID string, upload ImageUpload) (string, error)
	UploadAvatar(ctx context.Context, profileID string, upload ImageUpload) (string, error)
}

// ============================================================================
// Dashboard
// ============================================================================

type DashboardSummary struct {
	Role                Role                      `json:"role"`
	DisplayName         string                    `json:"display_name"`
	OnboardingCompleted bool                      `json:"onboarding_completed"`
	Redirect            string                    `json:"redirect,omitempty"`
	Partnerships        map[PartnershipStatus]int `json:"partnerships"`
	TotalPartnerships   int                       `json:"total_partnerships"`
}

type DashboardUsecase interface {
	Summary(ctx context.Context, profileID string, role Role) (*DashboardSummary, error)
}
