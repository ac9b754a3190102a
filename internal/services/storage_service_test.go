package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = params
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3ImageStore_Upload(t *testing.T) {
	client := &fakeS3{}
	store := newS3ImageStore(client, "media", "https://cdn.example.com/", slog.Default())

	url, err := store.Upload(context.Background(), "products/p1/x.png", strings.NewReader("png"), 3, "image/png")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/p1/x.png", url)
	assert.Equal(t, "media", *client.put.Bucket)
	assert.Equal(t, "products/p1/x.png", *client.put.Key)
	assert.Equal(t, "image/png", *client.put.ContentType)
	assert.Equal(t, int64(3), *client.put.ContentLength)
}

func TestS3ImageStore_UploadError(t *testing.T) {
	store := newS3ImageStore(&fakeS3{err: errors.New("denied")}, "media", "https://cdn.example.com", slog.Default())

	_, err := store.Upload(context.Background(), "k", strings.NewReader(""), 0, "image/png")

	assert.Error(t, err)
}

func TestS3ImageStore_Delete(t *testing.T) {
	client := &fakeS3{}
	store := newS3ImageStore(client, "media", "https://cdn.example.com", slog.Default())

	require.NoError(t, store.Delete(context.Background(), "products/p1/x.png"))
	assert.Equal(t, "products/p1/x.png", *client.deleted.Key)
}

func TestDefaultPublicBase(t *testing.T) {
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com",
		defaultPublicBase(config.StorageConfig{Bucket: "media", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/media",
		defaultPublicBase(config.StorageConfig{Bucket: "media", Endpoint: "http://localhost:9000/"}))
}

func TestDisabledImageStore(t *testing.T) {
	_, err := DisabledImageStore{}.Upload(context.Background(), "k", nil, 0, "image/png")
	assert.ErrorIs(t, err, models.ErrStorageDisabled)
	assert.NoError(t, DisabledImageStore{}.Delete(context.Background(), "k"))
}

func TestImageKey(t *testing.T) {
	a := ImageKey("products/p1", "Photo.JPG")
	b := ImageKey("products/p1", "Photo.JPG")

	assert.True(t, strings.HasPrefix(a, "products/p1/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}
