package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"partnerz-backend/internal/domain"
	"partnerz-backend/internal/queue"
	"partnerz-backend/pkg/email"
	"partnerz-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// Mailer is the part of email.EmailService the consumer needs.
type Mailer interface {
	SendPartnershipRequest(to string, data email.PartnershipRequestData) error
	IsConfigured() bool
}

// Consumer handles notification tasks
type Consumer struct {
	profiles     domain.ProfileRepository
	companies    domain.SaasCompanyRepository
	partners     domain.PartnerRepository
	partnerships domain.PartnershipRepository
	mailer       Mailer
	frontendURL  string
}

func NewConsumer(
	profiles domain.ProfileRepository,
	companies domain.SaasCompanyRepository,
	partners domain.PartnerRepository,
	partnerships domain.PartnershipRepository,
	mailer Mailer,
	frontendURL string,
) *Consumer {
	return &Consumer{
		profiles:     profiles,
		companies:    companies,
		partners:     partners,
		partnerships: partnerships,
		mailer:       mailer,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
	}
}

func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskPartnershipRequested, c.handlePartnershipRequested)
}

func (c *Consumer) handlePartnershipRequested(ctx context.Context, task *asynq.Task) error {
	var payload queue.PartnershipRequestedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Log.Warnw("worker_partnership_requested_unmarshal_failed", "error", err)
		// malformed payloads never succeed on retry
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.PartnershipID == "" {
		return nil
	}

	partnership, err := c.partnerships.GetByID(ctx, payload.PartnershipID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Log.Debugw("worker_partnership_requested_skip_missing", "partnership_id", payload.PartnershipID)
		return nil
	}
	if err != nil {
		return err
	}
	if partnership.Status != domain.StatusPending {
		logger.Log.Debugw("worker_partnership_requested_skip_answered", "partnership_id", partnership.ID, "status", partnership.Status)
		return nil
	}
	if c.mailer == nil || !c.mailer.IsConfigured() {
		logger.Log.Warnw("worker_partnership_requested_skip_mailer_unconfigured", "partnership_id", partnership.ID)
		return nil
	}

	to, data, err := c.buildPartnershipRequest(ctx, partnership)
	if err != nil {
		return err
	}
	if to == "" {
		return nil
	}

	if err := c.mailer.SendPartnershipRequest(to, data); err != nil {
		logger.Log.Warnw("worker_partnership_requested_send_failed", "partnership_id", partnership.ID, "error", err)
		return err
	}
	logger.Log.Infow("worker_partnership_requested_sent", "partnership_id", partnership.ID, "recipient_role", partnership.InitiatedBy.Counterpart())
	return nil
}

// buildPartnershipRequest resolves the recipient's email and both display names.
func (c *Consumer) buildPartnershipRequest(ctx context.Context, p *domain.Partnership) (string, email.PartnershipRequestData, error) {
	company, err := c.companies.GetByID(ctx, p.SaasID)
	if err != nil {
		return "", email.PartnershipRequestData{}, err
	}
	partner, err := c.partners.GetByID(ctx, p.PartnerID)
	if err != nil {
		return "", email.PartnershipRequestData{}, err
	}

	recipient := p.InitiatedBy.Counterpart()
	data := email.PartnershipRequestData{
		ReviewURL: c.frontendURL + "/" + string(recipient) + "/marketplace",
	}

	var recipientProfileID string
	if recipient == domain.RoleAffiliate {
		recipientProfileID = partner.ProfileID
		data.RecipientName = partner.DisplayName()
		data.RequesterName = company.Name
		data.RequesterRole = "SaaS company"
	} else {
		recipientProfileID = company.OwnerID
		data.RecipientName = company.Name
		data.RequesterName = partner.DisplayName()
		data.RequesterRole = "affiliate partner"
	}

	profile, err := c.profiles.GetByID(ctx, recipientProfileID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", data, nil
	}
	if err != nil {
		return "", data, err
	}
	return strings.TrimSpace(profile.Email), data, nil
}
