package worker

import (
	"context"
	"errors"
	"testing"

	"partnerz-backend/internal/domain"
	"partnerz-backend/internal/mocks"
	"partnerz-backend/internal/queue"
	"partnerz-backend/pkg/email"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	configured bool
	err        error
	sent       []string
	data       []email.PartnershipRequestData
}

func (f *fakeMailer) SendPartnershipRequest(to string, data email.PartnershipRequestData) error {
	f.sent = append(f.sent, to)
	f.data = append(f.data, data)
	return f.err
}

func (f *fakeMailer) IsConfigured() bool { return f.configured }

type fixture struct {
	profiles     *mocks.ProfileRepository
	companies    *mocks.SaasCompanyRepository
	partners     *mocks.PartnerRepository
	partnerships *mocks.PartnershipRepository
	mailer       *fakeMailer
	consumer     *Consumer
}

func newFixture() *fixture {
	f := &fixture{
		profiles:     new(mocks.ProfileRepository),
		companies:    new(mocks.SaasCompanyRepository),
		partners:     new(mocks.PartnerRepository),
		partnerships: new(mocks.PartnershipRepository),
		mailer:       &fakeMailer{configured: true},
	}
	f.consumer = NewConsumer(f.profiles, f.companies, f.partners, f.partnerships, f.mailer, "https://app.partnerz.ai/")
	return f
}

func task(t *testing.T, id string) *asynq.Task {
	t.Helper()
	tk, err := queue.NewPartnershipRequestedTask(queue.PartnershipRequestedPayload{PartnershipID: id})
	require.NoError(t, err)
	return tk
}

func strPtr(s string) *string { return &s }

func TestPartnershipRequestedEmailsAffiliate(t *testing.T) {
	f := newFixture()
	f.partnerships.On("GetByID", mock.Anything, "ps1").Return(&domain.Partnership{
		ID: "ps1", SaasID: "c1", PartnerID: "p1", Status: domain.StatusPending, InitiatedBy: domain.RoleSaaS,
	}, nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&domain.SaasCompany{ID: "c1", OwnerID: "owner", Name: "Acme"}, nil)
	f.partners.On("GetByID", mock.Anything, "p1").Return(&domain.Partner{ID: "p1", ProfileID: "aff", FullName: strPtr("Jane")}, nil)
	f.profiles.On("GetByID", mock.Anything, "aff").Return(&domain.Profile{ID: "aff", Email: "jane@example.com"}, nil)

	require.NoError(t, f.consumer.handlePartnershipRequested(context.Background(), task(t, "ps1")))

	assert.Equal(t, []string{"jane@example.com"}, f.mailer.sent)
	assert.Equal(t, email.PartnershipRequestData{
		RecipientName: "Jane",
		RequesterName: "Acme",
		RequesterRole: "SaaS company",
		ReviewURL:     "https://app.partnerz.ai/affiliate/marketplace",
	}, f.mailer.data[0])
}

func TestPartnershipRequestedEmailsCompanyOwner(t *testing.T) {
	f := newFixture()
	f.partnerships.On("GetByID", mock.Anything, "ps1").Return(&domain.Partnership{
		ID: "ps1", SaasID: "c1", PartnerID: "p1", Status: domain.StatusPending, InitiatedBy: domain.RoleAffiliate,
	}, nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&domain.SaasCompany{ID: "c1", OwnerID: "owner", Name: "Acme"}, nil)
	f.partners.On("GetByID", mock.Anything, "p1").Return(&domain.Partner{ID: "p1", ProfileID: "aff"}, nil)
	f.profiles.On("GetByID", mock.Anything, "owner").Return(&domain.Profile{ID: "owner", Email: "owner@acme.io"}, nil)

	require.NoError(t, f.consumer.handlePartnershipRequested(context.Background(), task(t, "ps1")))

	assert.Equal(t, []string{"owner@acme.io"}, f.mailer.sent)
	assert.Equal(t, "Affiliate Partner", f.mailer.data[0].RequesterName)
	assert.Equal(t, "https://app.partnerz.ai/saas/marketplace", f.mailer.data[0].ReviewURL)
}

func TestPartnershipRequestedSkips(t *testing.T) {
	t.Run("already answered", func(t *testing.T) {
		f := newFixture()
		f.partnerships.On("GetByID", mock.Anything, "ps1").Return(&domain.Partnership{ID: "ps1", Status: domain.StatusActive}, nil)
		require.NoError(t, f.consumer.handlePartnershipRequested(context.Background(), task(t, "ps1")))
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("deleted partnership", func(t *testing.T) {
		f := newFixture()
		f.partnerships.On("GetByID", mock.Anything, "ps1").Return(nil, domain.ErrNotFound)
		require.NoError(t, f.consumer.handlePartnershipRequested(context.Background(), task(t, "ps1")))
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("mailer not configured", func(t *testing.T) {
		f := newFixture()
		f.mailer.configured = false
		f.partnerships.On("GetByID", mock.Anything, "ps1").Return(&domain.Partnership{ID: "ps1", Status: domain.StatusPending, InitiatedBy: domain.RoleSaaS}, nil)
		require.NoError(t, f.consumer.handlePartnershipRequested(context.Background(), task(t, "ps1")))
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("malformed payload skips retry", func(t *testing.T) {
		f := newFixture()
		err := f.consumer.handlePartnershipRequested(context.Background(), asynq.NewTask(queue.TaskPartnershipRequested, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestPartnershipRequestedSendFailureRetries(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("smtp down")
	f.partnerships.On("GetByID", mock.Anything, "ps1").Return(&domain.Partnership{
		ID: "ps1", SaasID: "c1", PartnerID: "p1", Status: domain.StatusPending, InitiatedBy: domain.RoleSaaS,
	}, nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&domain.SaasCompany{ID: "c1", Name: "Acme"}, nil)
	f.partners.On("GetByID", mock.Anything, "p1").Return(&domain.Partner{ID: "p1", ProfileID: "aff"}, nil)
	f.profiles.On("GetByID", mock.Anything, "aff").Return(&domain.Profile{ID: "aff", Email: "jane@example.com"}, nil)

	err := f.consumer.handlePartnershipRequested(context.Background(), task(t, "ps1"))
	assert.EqualError(t, err, "smtp down")
}
