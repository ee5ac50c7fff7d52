package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appraisal/internal/platform/config"
)

func TestPresignPutPassesObjectInput(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var got *s3.PutObjectInput
	p := &S3Presigner{
		bucket: "avatars",
		expiry: DefaultPresignExpiry,
		now:    func() time.Time { return fixed },
		presign: func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			got = in
			return &v4.PresignedHTTPRequest{URL: "https://s3.example/avatars/key?sig=1", Method: "PUT"}, nil
		},
	}

	url, expiresAt, err := p.PresignPut(context.Background(), "profile-pictures/u1/a.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/avatars/key?sig=1", url)
	assert.Equal(t, fixed.Add(15*time.Minute), expiresAt)
	require.NotNil(t, got)
	assert.Equal(t, "avatars", *got.Bucket)
	assert.Equal(t, "profile-pictures/u1/a.png", *got.Key)
	assert.Equal(t, "image/png", *got.ContentType)
}

func TestPresignPutWrapsError(t *testing.T) {
	p := &S3Presigner{
		bucket: "avatars",
		expiry: time.Minute,
		now:    time.Now,
		presign: func(context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("signing failed")
		},
	}

	_, _, err := p.PresignPut(context.Background(), "k", "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing failed")
}

func TestNewS3PresignerWithStaticCredentials(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), config.Config{
		S3Bucket:       "avatars",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://localhost:9000",
		S3AccessKey:    "minio",
		S3SecretKey:    "minio-secret",
	})
	require.NoError(t, err)

	url, _, err := p.PresignPut(context.Background(), "profile-pictures/u1/a.png", "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "localhost:9000/avatars/profile-pictures/u1/a.png")
	assert.Contains(t, url, "X-Amz-Signature")
}
