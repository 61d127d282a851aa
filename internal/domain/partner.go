package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultPromotionPlatform = "Social Media"
	DefaultPaymentMethod     = "PayPal"
	DefaultCurrency          = "USD"
)

// Partner is the role row of an affiliate account.
type Partner struct {
	ID                  string    `json:"id"`
	ProfileID           string    `json:"profile_id"`
	FullName            *string   `json:"full_name"`
	AvatarURL           *string   `json:"avatar_url"`
	Phone               *string   `json:"phone"`
	Country             *string   `json:"country"`
	PromotionPlatform   *string   `json:"promotion_platform"`
	PlatformURL         *string   `json:"platform_url"`
	AudienceSize        *string   `json:"audience_size"`
	Niche               *string   `json:"niche"`
	PaymentMethod       *string   `json:"payment_method"`
	PaymentDetails      *string   `json:"payment_details"`
	TaxInfo             *string   `json:"tax_info"`
	PreferredCurrency   *string   `json:"preferred_currency"`
	Bio                 *string   `json:"bio"`
	Skills              []string  `json:"skills"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (p *Partner) ApplyDefaults() {
	if !nonEmpty(p.PromotionPlatform) {
		p.PromotionPlatform = strPtr(DefaultPromotionPlatform)
	}
	if !nonEmpty(p.PaymentMethod) {
		p.PaymentMethod = strPtr(DefaultPaymentMethod)
	}
	if !nonEmpty(p.PreferredCurrency) {
		p.PreferredCurrency = strPtr(DefaultCurrency)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
}

// LegacyBio is the bio line older views render, built from niche and platform.
func (p *Partner) LegacyBio() string {
	niche, platform := "", ""
	if p.Niche != nil {
		niche = *p.Niche
	}
	if p.PromotionPlatform != nil {
		platform = *p.PromotionPlatform
	}
	return fmt.Sprintf("Niche: %s. Platform: %s", niche, platform)
}

// DisplayName falls back to a generic label when no name was saved.
func (p *Partner) DisplayName() string {
	if nonEmpty(p.FullName) {
		return *p.FullName
	}
	return "Affiliate Partner"
}

// PartnerListing is what SaaS companies see of a partner. Contact and payment
// fields stay private.
type PartnerListing struct {
	ID                string   `json:"id"`
	FullName          *string  `json:"full_name"`
	AvatarURL         *string  `json:"avatar_url"`
	Country           *string  `json:"country"`
	PromotionPlatform *string  `json:"promotion_platform"`
	PlatformURL       *string  `json:"platform_url"`
	AudienceSize      *string  `json:"audience_size"`
	Niche             *string  `json:"niche"`
	Bio               *string  `json:"bio"`
	Skills            []string `json:"skills"`
}

func (p *Partner) Listing() PartnerListing {
	return PartnerListing{
		ID:                p.ID,
		FullName:          p.FullName,
		AvatarURL:         p.AvatarURL,
		Country:           p.Country,
		PromotionPlatform: p.PromotionPlatform,
		PlatformURL:       p.PlatformURL,
		AudienceSize:      p.AudienceSize,
		Niche:             p.Niche,
		Bio:               p.Bio,
		Skills:            p.Skills,
	}
}

// PartnerFilter narrows the partner list shown to SaaS companies.
type PartnerFilter struct {
	Query    string
	Niche    string
	Platform string
	Country  string
}

type PartnerRepository interface {
	GetByProfileID(ctx context.Context, profileID string) (*Partner, error)
	GetByID(ctx context.Context, id string) (*Partner, error)
	List(ctx context.Context, filter PartnerFilter) ([]Partner, error)
	// Update writes every editable column, keyed by profile_id.
	Update(ctx context.Context, partner *Partner) error
}
