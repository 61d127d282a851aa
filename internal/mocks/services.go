package mocks

import (
	"context"

	"partnerz-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type AuthGateway struct {
	mock.Mock
}

func (m *AuthGateway) SignUp(ctx context.Context, params domain.SignUpParams) (*domain.AuthSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *AuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *AuthGateway) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *AuthGateway) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *AuthGateway) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	return m.Called(ctx, email, redirectTo).Error(0)
}

func (m *AuthGateway) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return m.Called(ctx, accessToken, newPassword).Error(0)
}

func (m *AuthGateway) AuthorizeURL(provider, redirectTo string) string {
	return m.Called(provider, redirectTo).String(0)
}

type PartnershipNotifier struct {
	mock.Mock
}

func (m *PartnershipNotifier) NotifyPartnershipRequested(ctx context.Context, partnership *domain.Partnership) error {
	return m.Called(ctx, partnership).Error(0)
}

type MessagePublisher struct {
	mock.Mock
}

func (m *MessagePublisher) PublishMessage(recipientID string, message *domain.Message) {
	m.Called(recipientID, message)
}

type ObjectStorage struct {
	mock.Mock
}

func (m *ObjectStorage) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, bucket, path, contentType, data)
	return args.String(0), args.Error(1)
}
