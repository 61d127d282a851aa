package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/logger"
)

const (
	MaxMessageLength   = 4000
	DefaultMessagePage = 50
	MaxMessagePage     = 100
)

type chatUsecase struct {
	companies    domain.SaasCompanyRepository
	partners     domain.PartnerRepository
	partnerships domain.PartnershipRepository
	messages     domain.MessageRepository
	publisher    domain.MessagePublisher
}

// NewChatUsecase accepts a nil publisher; messages are then only visible on the next fetch.
func NewChatUsecase(
	companies domain.SaasCompanyRepository,
	partners domain.PartnerRepository,
	partnerships domain.PartnershipRepository,
	messages domain.MessageRepository,
	publisher domain.MessagePublisher,
) domain.ChatUsecase {
	return &chatUsecase{
		companies:    companies,
		partners:     partners,
		partnerships: partnerships,
		messages:     messages,
		publisher:    publisher,
	}
}

// ListConversations returns every partnership of the caller that was not rejected.
func (u *chatUsecase) ListConversations(ctx context.Context, profileID string, role domain.Role) ([]domain.Conversation, error) {
	side, err := sideID(ctx, u.companies, u.partners, profileID, role)
	if err != nil {
		return nil, err
	}

	var links []domain.Partnership
	if role == domain.RoleSaaS {
		links, err = u.partnerships.ListBySaasID(ctx, side)
	} else {
		links, err = u.partnerships.ListByPartnerID(ctx, side)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	conversations := make([]domain.Conversation, 0, len(links))
	for _, link := range links {
		if link.Status == domain.StatusRejected {
			continue
		}
		conv := domain.Conversation{Partnership: link}
		if role == domain.RoleSaaS {
			if partner, err := u.partners.GetByID(ctx, link.PartnerID); err == nil {
				conv.CounterpartName = partner.DisplayName()
				conv.CounterpartLogo = partner.AvatarURL
			}
		} else {
			if company, err := u.companies.GetByID(ctx, link.SaasID); err == nil {
				conv.CounterpartName = company.Name
				conv.CounterpartLogo = company.LogoURL
			}
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func (u *chatUsecase) ListMessages(ctx context.Context, profileID string, role domain.Role, partnershipID string, before *time.Time, limit int) ([]domain.Message, error) {
	if _, err := u.memberPartnership(ctx, profileID, role, partnershipID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultMessagePage
	}
	if limit > MaxMessagePage {
		limit = MaxMessagePage
	}

	messages, err := u.messages.ListByPartnership(ctx, partnershipID, before, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// SendMessage stores the message and pushes it to the counterpart's open connections.
func (u *chatUsecase) SendMessage(ctx context.Context, profileID string, role domain.Role, partnershipID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperror.BadRequest("Message cannot be empty")
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, apperror.BadRequest("Message must be at most 4000 characters")
	}

	partnership, err := u.memberPartnership(ctx, profileID, role, partnershipID)
	if err != nil {
		return nil, err
	}
	if partnership.Status == domain.StatusRejected {
		return nil, apperror.Forbidden("This partnership was declined")
	}

	msg := &domain.Message{
		PartnershipID: partnership.ID,
		SenderID:      profileID,
		Body:          body,
	}
	if err := u.messages.Create(ctx, msg); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to send message", err)
	}

	if u.publisher != nil {
		recipient, err := u.recipientProfileID(ctx, role, partnership)
		if err != nil {
			logger.Log.Warnw("message stored but recipient lookup failed", "partnership_id", partnership.ID, "error", err)
		} else {
			u.publisher.PublishMessage(recipient, msg)
		}
	}
	return msg, nil
}

func (u *chatUsecase) memberPartnership(ctx context.Context, profileID string, role domain.Role, partnershipID string) (*domain.Partnership, error) {
	partnership, err := loadPartnership(ctx, u.partnerships, partnershipID)
	if err != nil {
		return nil, err
	}
	side, err := sideID(ctx, u.companies, u.partners, profileID, role)
	if err != nil {
		return nil, err
	}
	if !isMember(partnership, role, side) {
		return nil, apperror.Forbidden("You are not part of this partnership")
	}
	return partnership, nil
}

// recipientProfileID maps the other side of the partnership back to its profile.
func (u *chatUsecase) recipientProfileID(ctx context.Context, senderRole domain.Role, p *domain.Partnership) (string, error) {
	if senderRole == domain.RoleSaaS {
		partner, err := u.partners.GetByID(ctx, p.PartnerID)
		if err != nil {
			return "", err
		}
		return partner.ProfileID, nil
	}
	company, err := u.companies.GetByID(ctx, p.SaasID)
	if err != nil {
		return "", err
	}
	return company.OwnerID, nil
}
