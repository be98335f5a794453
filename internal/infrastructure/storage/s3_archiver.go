// Package storage provides object storage backends for snapshot archival.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appbackup "github.com/invtrack/backend/internal/application/backup"
	infraconfig "github.com/invtrack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ appbackup.Archiver = (*S3SnapshotArchiver)(nil)

// S3SnapshotArchiver stores exported snapshots in an S3-compatible bucket
// (AWS S3, MinIO, etc.)
type S3SnapshotArchiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3SnapshotArchiverOption is a functional option for configuring the
// archiver
type S3SnapshotArchiverOption func(*S3SnapshotArchiver)

// WithLogger sets a custom logger for the archiver
func WithLogger(logger *zap.Logger) S3SnapshotArchiverOption {
	return func(a *S3SnapshotArchiver) {
		a.logger = logger
	}
}

// NewS3SnapshotArchiver creates a new archiver from configuration. It
// supports any S3-compatible storage backend.
func NewS3SnapshotArchiver(cfg *infraconfig.ArchiveConfig, opts ...S3SnapshotArchiverOption) (*S3SnapshotArchiver, error) {
	if cfg == nil {
		return nil, errors.New("archive configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
				// custom endpoints are usually MinIO-style path addressed
				o.UsePathStyle = true
			}
		}
	})

	archiver := &S3SnapshotArchiver{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(archiver)
	}
	return archiver, nil
}

// EnsureBucket creates the bucket if it doesn't exist. Call during startup.
func (a *S3SnapshotArchiver) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("creating archive bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads a snapshot document under the configured prefix
func (a *S3SnapshotArchiver) Store(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return errors.New("snapshot name is required")
	}

	key := name
	if a.prefix != "" {
		key = a.prefix + "/" + name
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	a.logger.Debug("snapshot archived",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return nil
}
