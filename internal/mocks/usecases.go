package mocks

import (
	"context"
	"time"

	"partnerz-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type AuthUsecase struct {
	mock.Mock
}

func (m *AuthUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *AuthUsecase) SignUp(ctx context.Context, input domain.SignUpInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *AuthUsecase) Reconcile(ctx context.Context, input domain.ReconcileInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *AuthUsecase) SelectRole(ctx context.Context, identity domain.Identity, accessToken string, role domain.Role) (*domain.AuthResult, error) {
	args := m.Called(ctx, identity, accessToken, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *AuthUsecase) OAuthURL(role domain.Role, intent domain.AuthIntent) string {
	return m.Called(role, intent).String(0)
}

func (m *AuthUsecase) ForgotPassword(ctx context.Context, email string, role domain.Role) error {
	return m.Called(ctx, email, role).Error(0)
}

func (m *AuthUsecase) ResetPassword(ctx context.Context, accessToken, newPassword, confirmPassword string) error {
	return m.Called(ctx, accessToken, newPassword, confirmPassword).Error(0)
}

func (m *AuthUsecase) Logout(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *AuthUsecase) GetCurrentProfile(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *AuthUsecase) Me(ctx context.Context, id string) (*domain.AuthResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

type MarketplaceUsecase struct {
	mock.Mock
}

func (m *MarketplaceUsecase) PartnerMarketplace(ctx context.Context, ownerID string, filter domain.PartnerFilter) (*domain.PartnerMarketplace, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartnerMarketplace), args.Error(1)
}

func (m *MarketplaceUsecase) ProgramMarketplace(ctx context.Context, profileID string, filter domain.CompanyFilter) (*domain.ProgramMarketplace, error) {
	args := m.Called(ctx, profileID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgramMarketplace), args.Error(1)
}

func (m *MarketplaceUsecase) ConnectWithPartner(ctx context.Context, ownerID, partnerID string) (*domain.Partnership, error) {
	args := m.Called(ctx, ownerID, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partnership), args.Error(1)
}

func (m *MarketplaceUsecase) ConnectWithProgram(ctx context.Context, profileID, saasID string) (*domain.Partnership, error) {
	args := m.Called(ctx, profileID, saasID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partnership), args.Error(1)
}

func (m *MarketplaceUsecase) RespondToRequest(ctx context.Context, profileID string, role domain.Role, partnershipID string, status domain.PartnershipStatus) (*domain.Partnership, error) {
	args := m.Called(ctx, profileID, role, partnershipID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partnership), args.Error(1)
}

func (m *MarketplaceUsecase) ExportPartners(ctx context.Context, ownerID string) ([]byte, string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type ChatUsecase struct {
	mock.Mock
}

func (m *ChatUsecase) ListConversations(ctx context.Context, profileID string, role domain.Role) ([]domain.Conversation, error) {
	args := m.Called(ctx, profileID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *ChatUsecase) ListMessages(ctx context.Context, profileID string, role domain.Role, partnershipID string, before *time.Time, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, profileID, role, partnershipID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *ChatUsecase) SendMessage(ctx context.Context, profileID string, role domain.Role, partnershipID, body string) (*domain.Message, error) {
	args := m.Called(ctx, profileID, role, partnershipID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

type OnboardingUsecase struct {
	mock.Mock
}

func (m *OnboardingUsecase) GetSaasOnboarding(ctx context.Context, ownerID string) (*domain.SaasCompany, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaasCompany), args.Error(1)
}

func (m *OnboardingUsecase) CompleteSaasOnboarding(ctx context.Context, ownerID string, input domain.SaasOnboardingInput) (*domain.SaasCompany, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaasCompany), args.Error(1)
}

func (m *OnboardingUsecase) GetAffiliateOnboarding(ctx context.Context, profileID string) (*domain.Partner, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *OnboardingUsecase) CompleteAffiliateOnboarding(ctx context.Context, profileID string, input domain.AffiliateOnboardingInput) (*domain.Partner, error) {
	args := m.Called(ctx, profileID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

type SettingsUsecase struct {
	mock.Mock
}

func (m *SettingsUsecase) GetSaasSettings(ctx context.Context, ownerID string) (*domain.SaasCompany, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaasCompany), args.Error(1)
}

func (m *SettingsUsecase) UpdateSaasSettings(ctx context.Context, ownerID string, input domain.SaasSettingsInput) (*domain.SaasCompany, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaasCompany), args.Error(1)
}

func (m *SettingsUsecase) GetAffiliateSettings(ctx context.Context, profileID string) (*domain.Partner, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *SettingsUsecase) UpdateAffiliateSettings(ctx context.Context, profileID string, input domain.AffiliateSettingsInput) (*domain.Partner, error) {
	args := m.Called(ctx, profileID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *SettingsUsecase) UploadCompanyLogo(ctx context.Context, ownerID string, upload domain.ImageUpload) (string, error) {
	args := m.Called(ctx, ownerID, upload)
	return args.String(0), args.Error(1)
}

func (m *SettingsUsecase) UploadAvatar(ctx context.Context, profileID string, upload domain.ImageUpload) (string, error) {
	args := m.Called(ctx, profileID, upload)
	return args.String(0), args.Error(1)
}

type DashboardUsecase struct {
	mock.Mock
}

func (m *DashboardUsecase) Summary(ctx context.Context, profileID string, role domain.Role) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, profileID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}
