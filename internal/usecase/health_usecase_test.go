package usecase_test

import (
	"context"
	"errors"
	"testing"

	"partnerz-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }

	status, healthy := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{"database": ok}).Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "ok", status["database"])

	status, healthy = usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": ok,
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	}).Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "degraded", status["status"])
	assert.Equal(t, "connection refused", status["redis"])
}
