package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

const uploadTimeout = 30 * time.Second

// SupabaseStorage uploads through the storage API of the hosted project.
type SupabaseStorage struct {
	baseURL string
	apiKey  string
	client  *storage_go.Client
}

// NewSupabaseStorage needs a key allowed to write the buckets, normally the service role key.
func NewSupabaseStorage(baseURL, apiKey string) *SupabaseStorage {
	baseURL = strings.TrimRight(baseURL, "/")
	s := &SupabaseStorage{baseURL: baseURL, apiKey: apiKey}
	if baseURL != "" && apiKey != "" {
		s.client = storage_go.NewClient(baseURL+"/storage/v1", apiKey, map[string]string{"apikey": apiKey})
	}
	return s
}

type uploadResult struct {
	err error
}

// Upload writes the object with upsert and returns its public URL. The client has no
// context support, so the call is abandoned once ctx or the upload timeout expires.
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	upsert := true
	done := make(chan uploadResult, 1)
	go func() {
		_, err := s.client.UploadFile(bucket, path, bytes.NewReader(data), storage_go.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		done <- uploadResult{err: err}
	}()

	timer := time.NewTimer(uploadTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return "", uploadError(res.err)
		}
	case <-ctx.Done():
		return "", fmt.Errorf("failed to upload object: %w", ctx.Err())
	case <-timer.C:
		return "", fmt.Errorf("failed to upload object: timed out after %s", uploadTimeout)
	}

	return s.PublicURL(bucket, path), nil
}

func (s *SupabaseStorage) PublicURL(bucket, path string) string {
	if s.client == nil {
		return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, path)
	}
	return s.client.GetPublicUrl(bucket, path).SignedURL
}

// uploadError separates transport failures from answers the storage API rejected.
func uploadError(err error) error {
	var netErr *url.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	// The client does not expose the status; any answered error is a rejection.
	return &UploadError{StatusCode: http.StatusBadRequest, Message: strings.TrimSpace(err.Error())}
}
