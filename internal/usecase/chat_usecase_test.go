package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"partnerz-backend/internal/domain"
	"partnerz-backend/internal/mocks"
	"partnerz-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chatDeps struct {
	companies    *mocks.SaasCompanyRepository
	partners     *mocks.PartnerRepository
	partnerships *mocks.PartnershipRepository
	messages     *mocks.MessageRepository
	publisher    *mocks.MessagePublisher
	uc           domain.ChatUsecase
}

func newChatDeps() *chatDeps {
	d := &chatDeps{
		companies:    new(mocks.SaasCompanyRepository),
		partners:     new(mocks.PartnerRepository),
		partnerships: new(mocks.PartnershipRepository),
		messages:     new(mocks.MessageRepository),
		publisher:    new(mocks.MessagePublisher),
	}
	d.uc = usecase.NewChatUsecase(d.companies, d.partners, d.partnerships, d.messages, d.publisher)
	return d
}

func activeLink() *domain.Partnership {
	return &domain.Partnership{ID: "ps1", SaasID: "c1", PartnerID: "p1", Status: domain.StatusActive, InitiatedBy: domain.RoleSaaS}
}

func TestSendMessage_PushesToCounterpart(t *testing.T) {
	d := newChatDeps()
	d.partnerships.On("GetByID", mock.Anything, "ps1").Return(activeLink(), nil)
	d.companies.On("GetByOwnerID", mock.Anything, "u1").Return(&domain.SaasCompany{ID: "c1", OwnerID: "u1"}, nil)
	d.partners.On("GetByID", mock.Anything, "p1").Return(&domain.Partner{ID: "p1", ProfileID: "u2"}, nil)
	d.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		return m.PartnershipID == "ps1" && m.SenderID == "u1" && m.Body == "hello"
	})).Return(nil)
	d.publisher.On("PublishMessage", "u2", mock.Anything).Return()

	msg, err := d.uc.SendMessage(context.Background(), "u1", domain.RoleSaaS, "ps1", "  hello ")

	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Body)
	d.publisher.AssertExpectations(t)
}

func TestSendMessage_Rejects(t *testing.T) {
	d := newChatDeps()

	_, err := d.uc.SendMessage(context.Background(), "u1", domain.RoleSaaS, "ps1", "   ")
	assertAppError(t, err, http.StatusBadRequest, "")

	_, err = d.uc.SendMessage(context.Background(), "u1", domain.RoleSaaS, "ps1", strings.Repeat("a", usecase.MaxMessageLength+1))
	assertAppError(t, err, http.StatusBadRequest, "")

	d.partnerships.On("GetByID", mock.Anything, "ps1").Return(activeLink(), nil)
	d.partners.On("GetByProfileID", mock.Anything, "u9").Return(&domain.Partner{ID: "p9"}, nil)

	_, err = d.uc.SendMessage(context.Background(), "u9", domain.RoleAffiliate, "ps1", "hi")
	assertAppError(t, err, http.StatusForbidden, "")
	d.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListMessages_ClampsLimit(t *testing.T) {
	d := newChatDeps()
	d.partnerships.On("GetByID", mock.Anything, "ps1").Return(activeLink(), nil)
	d.partners.On("GetByProfileID", mock.Anything, "u2").Return(&domain.Partner{ID: "p1", ProfileID: "u2"}, nil)
	d.messages.On("ListByPartnership", mock.Anything, "ps1", (*time.Time)(nil), usecase.MaxMessagePage).Return(nil, nil)

	messages, err := d.uc.ListMessages(context.Background(), "u2", domain.RoleAffiliate, "ps1", nil, 1000)

	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestListConversations_SkipsRejected(t *testing.T) {
	d := newChatDeps()
	d.partners.On("GetByProfileID", mock.Anything, "u2").Return(&domain.Partner{ID: "p1", ProfileID: "u2"}, nil)
	d.partnerships.On("ListByPartnerID", mock.Anything, "p1").Return([]domain.Partnership{
		{ID: "ps1", SaasID: "c1", PartnerID: "p1", Status: domain.StatusActive},
		{ID: "ps2", SaasID: "c2", PartnerID: "p1", Status: domain.StatusRejected},
	}, nil)
	d.companies.On("GetByID", mock.Anything, "c1").Return(&domain.SaasCompany{ID: "c1", Name: "Acme"}, nil)

	conversations, err := d.uc.ListConversations(context.Background(), "u2", domain.RoleAffiliate)

	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Acme", conversations[0].CounterpartName)
}

func TestDashboardSummary(t *testing.T) {
	companies := new(mocks.SaasCompanyRepository)
	partners := new(mocks.PartnerRepository)
	partnerships := new(mocks.PartnershipRepository)
	uc := usecase.NewDashboardUsecase(companies, partners, partnerships)

	t.Run("incomplete onboarding redirects", func(t *testing.T) {
		partners.On("GetByProfileID", mock.Anything, "u2").Return(&domain.Partner{ID: "p1"}, nil)

		summary, err := uc.Summary(context.Background(), "u2", domain.RoleAffiliate)
		require.NoError(t, err)
		assert.Equal(t, "/affiliate/onboarding", summary.Redirect)
		partnerships.AssertNotCalled(t, "ListByPartnerID", mock.Anything, mock.Anything)
	})

	t.Run("counts by status", func(t *testing.T) {
		companies.On("GetByOwnerID", mock.Anything, "u1").Return(onboardedCompany("u1"), nil)
		partnerships.On("ListBySaasID", mock.Anything, "c1").Return([]domain.Partnership{
			{Status: domain.StatusActive},
			{Status: domain.StatusActive},
			{Status: domain.StatusPending},
		}, nil)

		summary, err := uc.Summary(context.Background(), "u1", domain.RoleSaaS)
		require.NoError(t, err)
		assert.Empty(t, summary.Redirect)
		assert.Equal(t, "Acme", summary.DisplayName)
		assert.Equal(t, 2, summary.Partnerships[domain.StatusActive])
		assert.Equal(t, 1, summary.Partnerships[domain.StatusPending])
		assert.Equal(t, 3, summary.TotalPartnerships)
	})
}
