package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/imaging"
	"partnerz-backend/pkg/logger"
	"partnerz-backend/pkg/security"
	"partnerz-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

const (
	BucketLogos   = "logos"
	BucketAvatars = "avatars"
)

type settingsUsecase struct {
	companies domain.SaasCompanyRepository
	partners  domain.PartnerRepository
	storage   domain.ObjectStorage
	validate  *validator.Validate
	secLog    *security.SecurityLogger
	now       func() time.Time
}

// NewSettingsUsecase accepts a nil storage; uploads then fail with 503.
func NewSettingsUsecase(
	companies domain.SaasCompanyRepository,
	partners domain.PartnerRepository,
	objects domain.ObjectStorage,
	validate *validator.Validate,
) domain.SettingsUsecase {
	return &settingsUsecase{
		companies: companies,
		partners:  partners,
		storage:   objects,
		validate:  validate,
		secLog:    security.DefaultLogger(),
		now:       time.Now,
	}
}

func (u *settingsUsecase) GetSaasSettings(ctx context.Context, ownerID string) (*domain.SaasCompany, error) {
	company, err := loadCompany(ctx, u.companies, ownerID)
	if err != nil {
		return nil, err
	}
	company.ApplyDefaults(u.now())
	return company, nil
}

func (u *settingsUsecase) UpdateSaasSettings(ctx context.Context, ownerID string, input domain.SaasSettingsInput) (*domain.SaasCompany, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	if err := checkCommissionRate(input.CommissionRate); err != nil {
		return nil, err
	}

	company, err := loadCompany(ctx, u.companies, ownerID)
	if err != nil {
		return nil, err
	}

	company.Name = strings.TrimSpace(input.Name)
	company.LogoURL = domain.OptionalString(input.LogoURL)
	company.Website = domain.OptionalString(input.Website)
	company.Description = domain.OptionalString(input.Description)
	company.ShortDescription = domain.OptionalString(input.ShortDescription)
	company.LongDescription = domain.OptionalString(input.LongDescription)
	company.Category = domain.OptionalString(input.Category)
	company.CommissionModel = domain.OptionalString(input.CommissionModel)
	company.CommissionRate = input.CommissionRate
	company.LandingPageURL = domain.OptionalString(input.LandingPageURL)
	company.TrackingMethod = domain.OptionalString(input.TrackingMethod)
	company.PartnerProgramURL = domain.OptionalString(input.PartnerProgramURL)
	company.ExclusiveDeal = domain.OptionalString(input.ExclusiveDeal)
	company.TechnicalContact = domain.OptionalString(input.TechnicalContact)
	company.GeoRestrictions = domain.OptionalString(input.GeoRestrictions)
	company.SupportedLanguages = []string(domain.CleanList(input.SupportedLanguages))

	company.YearFounded = nil
	if input.YearFounded > 0 {
		year := input.YearFounded
		company.YearFounded = &year
	}
	cookieDays := input.CookieDuration
	company.CookieDuration = &cookieDays

	company.OnboardingCompleted = company.HasRequiredFields()

	if err := u.companies.Update(ctx, company); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save settings", err)
	}
	return company, nil
}

func (u *settingsUsecase) GetAffiliateSettings(ctx context.Context, profileID string) (*domain.Partner, error) {
	partner, err := loadPartner(ctx, u.partners, profileID)
	if err != nil {
		return nil, err
	}
	partner.ApplyDefaults()
	return partner, nil
}

func (u *settingsUsecase) UpdateAffiliateSettings(ctx context.Context, profileID string, input domain.AffiliateSettingsInput) (*domain.Partner, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	partner, err := loadPartner(ctx, u.partners, profileID)
	if err != nil {
		return nil, err
	}

	partner.FullName = domain.OptionalString(input.FullName)
	partner.AvatarURL = domain.OptionalString(input.AvatarURL)
	partner.Phone = domain.OptionalString(input.Phone)
	partner.Country = domain.OptionalString(input.Country)
	partner.PromotionPlatform = domain.OptionalString(input.PromotionPlatform)
	partner.PlatformURL = domain.OptionalString(input.PlatformURL)
	partner.AudienceSize = domain.OptionalString(input.AudienceSize)
	partner.Niche = domain.OptionalString(input.Niche)
	partner.PaymentMethod = domain.OptionalString(input.PaymentMethod)
	partner.PaymentDetails = domain.OptionalString(input.PaymentDetails)
	partner.TaxInfo = domain.OptionalString(input.TaxInfo)
	partner.PreferredCurrency = domain.OptionalString(strings.ToUpper(input.PreferredCurrency))

	// Older views only read bio.
	if partner.Niche != nil || partner.PromotionPlatform != nil {
		bio := partner.LegacyBio()
		partner.Bio = &bio
	}

	if err := u.partners.Update(ctx, partner); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save settings", err)
	}
	return partner, nil
}

func (u *settingsUsecase) UploadCompanyLogo(ctx context.Context, ownerID string, upload domain.ImageUpload) (string, error) {
	return u.uploadImage(ctx, BucketLogos, ownerID, upload)
}

func (u *settingsUsecase) UploadAvatar(ctx context.Context, profileID string, upload domain.ImageUpload) (string, error) {
	return u.uploadImage(ctx, BucketAvatars, profileID, upload)
}

// uploadImage validates, crops and re-encodes the image, then stores it under
// {userID}-{unixMillis}.jpg. The caller saves the returned URL with the next settings save.
func (u *settingsUsecase) uploadImage(ctx context.Context, bucket, userID string, upload domain.ImageUpload) (string, error) {
	if check := security.ValidateImage(upload.Filename, upload.Data); !check.Valid {
		u.secLog.LogAuthEvent(ctx, security.EventUploadRejected, "", map[string]interface{}{
			"user_id":  userID,
			"bucket":   bucket,
			"filename": upload.Filename,
			"reason":   check.Error,
		})
		return "", apperror.BadRequest(check.Error)
	}

	var crop *imaging.Rect
	if upload.Crop != nil {
		crop = &imaging.Rect{X: upload.Crop.X, Y: upload.Crop.Y, Width: upload.Crop.Width, Height: upload.Crop.Height}
	}
	aspect := upload.Aspect
	if aspect <= 0 {
		aspect = 1
	}

	data, err := imaging.Process(upload.Data, crop, aspect)
	if errors.Is(err, imaging.ErrInvalidCrop) {
		return "", apperror.BadRequest("Crop area is outside the image")
	}
	if errors.Is(err, imaging.ErrImageTooLarge) {
		return "", apperror.BadRequest(fmt.Sprintf("Image must be at most %dx%d pixels", imaging.MaxSourceSide, imaging.MaxSourceSide))
	}
	if err != nil {
		return "", apperror.New(http.StatusBadRequest, "Unable to process image", err)
	}

	if u.storage == nil {
		return "", apperror.Unavailable("File storage is not configured", storage.ErrNotConfigured)
	}

	path := fmt.Sprintf("%s-%d.jpg", userID, u.now().UnixMilli())
	url, err := u.storage.Upload(ctx, bucket, path, "image/jpeg", data)
	if err != nil {
		logger.Log.Errorw("image upload failed", "bucket", bucket, "path", path, "error", err)
		var upErr *storage.UploadError
		if errors.As(err, &upErr) && upErr.StatusCode < http.StatusInternalServerError {
			return "", apperror.New(http.StatusBadGateway, "Upload rejected: "+upErr.Message, err)
		}
		return "", apperror.Unavailable("Upload failed. Please try again.", err)
	}
	return url, nil
}
