package domain

import (
	"context"
	"time"
)

type PartnershipStatus string

const (
	StatusPending  PartnershipStatus = "pending"
	StatusActive   PartnershipStatus = "active"
	StatusRejected PartnershipStatus = "rejected"
)

// Partnership links one company and one partner. There is at most one per pair.
type Partnership struct {
	ID          string            `json:"id"`
	SaasID      string            `json:"saas_id"`
	PartnerID   string            `json:"partner_id"`
	Status      PartnershipStatus `json:"status"`
	InitiatedBy Role              `json:"initiated_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type PartnershipRepository interface {
	ListBySaasID(ctx context.Context, saasID string) ([]Partnership, error)
	ListByPartnerID(ctx context.Context, partnerID string) ([]Partnership, error)
	GetByID(ctx context.Context, id string) (*Partnership, error)
	// Create returns ErrConflict when the pair is already linked.
	Create(ctx context.Context, partnership *Partnership) error
	UpdateStatus(ctx context.Context, id string, status PartnershipStatus) error
}

// PartnershipNotifier tells the counterpart about a new connect request.
type PartnershipNotifier interface {
	NotifyPartnershipRequested(ctx context.Context, partnership *Partnership) error
}

// ConnectedPartner is a partner together with the caller's partnership state.
type ConnectedPartner struct {
	PartnerListing
	PartnershipID string            `json:"partnership_id"`
	Status        PartnershipStatus `json:"status"`
	InitiatedBy   Role              `json:"initiated_by"`
}

type ConnectedProgram struct {
	ProgramListing
	PartnershipID string            `json:"partnership_id"`
	Status        PartnershipStatus `json:"status"`
	InitiatedBy   Role              `json:"initiated_by"`
}

// PartnerMarketplace is the SaaS view: every partner is in exactly one of the lists.
type PartnerMarketplace struct {
	Connected []ConnectedPartner `json:"connected"`
	Available []PartnerListing   `json:"available"`
}

// ProgramMarketplace is the affiliate view.
type ProgramMarketplace struct {
	Connected []ConnectedProgram `json:"connected"`
	Available []ProgramListing   `json:"available"`
}

type MarketplaceUsecase interface {
	PartnerMarketplace(ctx context.Context, ownerID string, filter PartnerFilter) (*PartnerMarketplace, error)
	ProgramMarketplace(ctx context.Context, profileID string, filter CompanyFilter) (*ProgramMarketplace, error)
	ConnectWithPartner(ctx context.Context, ownerID, partnerID string) (*Partnership, error)
	ConnectWithProgram(ctx context.Context, profileID, saasID string) (*Partnership, error)
	RespondToRequest(ctx context.Context, profileID string, role Role, partnershipID string, status PartnershipStatus) (*Partnership, error)
	// ExportPartners returns an xlsx workbook and its file name.
	ExportPartners(ctx context.Context, ownerID string) ([]byte, string, error)
}
