package storage

import (
	"context"
	"errors"
	"fmt"

	"partnerz-backend/config"
	"partnerz-backend/internal/domain"
)

var ErrNotConfigured = errors.New("storage: credentials not configured")

// UploadError is a rejected upload.
type UploadError struct {
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("storage: upload failed with status %d: %s", e.StatusCode, e.Message)
}

// New picks the backend from STORAGE_PROVIDER. Supabase storage is the default.
func New(ctx context.Context, cfg *config.Config) (domain.ObjectStorage, error) {
	switch cfg.StorageProvider {
	case "s3":
		s3, err := NewS3Storage(ctx, S3Config{
			Provider:        S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	case "", "supabase":
		key := cfg.SupabaseServiceRoleKey
		if key == "" {
			key = cfg.SupabaseKey
		}
		return NewSupabaseStorage(cfg.SupabaseUrl, key), nil
	}
	return nil, fmt.Errorf("storage: unknown provider %q", cfg.StorageProvider)
}
