package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"diskbot/internal/bot"
	"diskbot/internal/config"
)

// presignExpiry is how long an issued download URL stays valid.
const presignExpiry = 15 * time.Minute

// S3Storage resolves download URLs by presigning GET requests against
// an S3-compatible bucket. Entry paths are mapped to object keys under
// the configured prefix.
type S3Storage struct {
	bucket  string
	prefix  string
	presign *s3.PresignClient
}

// NewS3Storage creates an S3 backend from config. A custom endpoint
// supports MinIO-style deployments.
func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})

	return &S3Storage{
		bucket:  cfg.S3Bucket,
		prefix:  cfg.S3Prefix,
		presign: s3.NewPresignClient(client),
	}, nil
}

// DownloadURL issues a presigned GET URL for the object backing
// entryPath.
func (s *S3Storage) DownloadURL(ctx context.Context, entryPath string) (string, error) {
	key := strings.TrimPrefix(path.Join(s.prefix, entryPath), "/")

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presigning download for %s: %w", key, err)
	}

	return req.URL, nil
}

// ValidateSetup verifies the backend configuration.
func (s *S3Storage) ValidateSetup() error {
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}
	return nil
}

// Compile-time check that S3Storage implements the bot.Storage interface
var _ bot.Storage = (*S3Storage)(nil)
