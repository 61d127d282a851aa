// Package mocks holds testify mocks of the domain interfaces.
package mocks

import (
	"context"
	"time"

	"partnerz-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *ProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *ProfileRepository) Provision(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type SaasCompanyRepository struct {
	mock.Mock
}

func (m *SaasCompanyRepository) GetByOwnerID(ctx context.Context, ownerID string) (*domain.SaasCompany, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaasCompany), args.Error(1)
}

func (m *SaasCompanyRepository) GetByID(ctx context.Context, id string) (*domain.SaasCompany, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaasCompany), args.Error(1)
}

func (m *SaasCompanyRepository) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.SaasCompany, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaasCompany), args.Error(1)
}

func (m *SaasCompanyRepository) Update(ctx context.Context, company *domain.SaasCompany) error {
	return m.Called(ctx, company).Error(0)
}

type PartnerRepository struct {
	mock.Mock
}

func (m *PartnerRepository) GetByProfileID(ctx context.Context, profileID string) (*domain.Partner, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *PartnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *PartnerRepository) List(ctx context.Context, filter domain.PartnerFilter) ([]domain.Partner, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partner), args.Error(1)
}

func (m *PartnerRepository) Update(ctx context.Context, partner *domain.Partner) error {
	return m.Called(ctx, partner).Error(0)
}

type PartnershipRepository struct {
	mock.Mock
}

func (m *PartnershipRepository) ListBySaasID(ctx context.Context, saasID string) ([]domain.Partnership, error) {
	args := m.Called(ctx, saasID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partnership), args.Error(1)
}

func (m *PartnershipRepository) ListByPartnerID(ctx context.Context, partnerID string) ([]domain.Partnership, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partnership), args.Error(1)
}

func (m *PartnershipRepository) GetByID(ctx context.Context, id string) (*domain.Partnership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partnership), args.Error(1)
}

func (m *PartnershipRepository) Create(ctx context.Context, partnership *domain.Partnership) error {
	return m.Called(ctx, partnership).Error(0)
}

func (m *PartnershipRepository) UpdateStatus(ctx context.Context, id string, status domain.PartnershipStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MessageRepository) ListByPartnership(ctx context.Context, partnershipID string, before *time.Time, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, partnershipID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}
