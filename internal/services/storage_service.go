package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// s3API is the subset of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore stores images in an S3 compatible bucket.
type S3ImageStore struct {
	client        s3API
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewS3ImageStore builds a client from cfg. Static credentials are used
// when an access key is configured, otherwise the default AWS chain.
func NewS3ImageStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*S3ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = defaultPublicBase(cfg)
	}

	return newS3ImageStore(client, cfg.Bucket, base, logger), nil
}

func newS3ImageStore(client s3API, bucket, publicBaseURL string, logger *slog.Logger) *S3ImageStore {
	return &S3ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

func defaultPublicBase(cfg config.StorageConfig) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (s *S3ImageStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("failed to upload image", slog.String("key", key), slog.Any("error", err))
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.logger.Info("image uploaded", slog.String("key", key), slog.Int64("size", size))
	return s.publicBaseURL + "/" + key, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// DisabledImageStore rejects every upload; used when storage is off.
type DisabledImageStore struct{}

func (DisabledImageStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	return "", models.ErrStorageDisabled
}

func (DisabledImageStore) Delete(ctx context.Context, key string) error {
	return nil
}

// ImageKey returns a fresh, date-partitioned storage key for an upload
// belonging to owner (e.g. "products/<id>").
func ImageKey(owner, filename string) string {
	d := time.Now().UTC()
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", owner, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
