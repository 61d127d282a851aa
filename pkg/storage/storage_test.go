package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseStorageUpload(t *testing.T) {
	var gotPath, gotUpsert, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"logos/u1-1.jpg"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL+"/", "service-key")
	url, err := s.Upload(context.Background(), "logos", "u1-1.jpg", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/storage/v1/object/public/logos/u1-1.jpg", url)
	assert.Equal(t, "/storage/v1/object/logos/u1-1.jpg", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, []byte("jpeg-bytes"), gotBody)
}

func TestSupabaseStorageUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"404","error":"Bucket not found","message":"Bucket not found"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "service-key")
	_, err := s.Upload(context.Background(), "avatars", "u1-1.jpg", "image/jpeg", []byte("x"))

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, http.StatusBadRequest, uploadErr.StatusCode)
	assert.Contains(t, uploadErr.Message, "Bucket not found")
}

func TestSupabaseStorageUploadHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSupabaseStorage(srv.URL, "service-key").Upload(ctx, "logos", "a.jpg", "image/jpeg", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSupabaseStorageNotConfigured(t *testing.T) {
	_, err := NewSupabaseStorage("", "").Upload(context.Background(), "logos", "a.jpg", "image/jpeg", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResolveEndpoint(t *testing.T) {
	assert.Equal(t, "", resolveEndpoint(S3Config{Provider: S3ProviderAWS, Region: "us-east-1"}))
	assert.Equal(t, "https://s3.eu-west-1.wasabisys.com", resolveEndpoint(S3Config{Provider: S3ProviderWasabi, Region: "eu-west-1"}))
	assert.Equal(t, "https://s3.ap-southeast-1.wasabisys.com", resolveEndpoint(S3Config{Provider: S3ProviderWasabi, Region: "mars-1"}))
	assert.Equal(t, "http://localhost:9000", resolveEndpoint(S3Config{Endpoint: "http://localhost:9000"}))
}

func TestNewS3StorageRequiresCredentials(t *testing.T) {
	_, err := NewS3Storage(context.Background(), S3Config{Bucket: "assets"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
