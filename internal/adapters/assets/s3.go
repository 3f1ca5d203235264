package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"devevents/internal/domain"
)

// S3Config holds configuration for an S3-compatible bucket.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the AWS endpoint (MinIO, LocalStack). Path-style addressing is used when set.
	Endpoint string
	// PublicBaseURL is prefixed to object keys to form the returned URL.
	PublicBaseURL string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Store struct {
	client  objectPutter
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func NewS3Store(config S3Config, logger *slog.Logger) (domain.AssetStore, error) {
	if config.Bucket == "" {
		return nil, errors.New("S3_BUCKET is required for the s3 asset provider")
	}
	awsCfg := aws.Config{
		Region: config.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimRight(config.PublicBaseURL, "/")
	if baseURL == "" {
		if config.Endpoint != "" {
			baseURL = strings.TrimRight(config.Endpoint, "/") + "/" + config.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.Bucket, config.Region)
		}
	}
	return &s3Store{client: client, bucket: config.Bucket, baseURL: baseURL, logger: logger}, nil
}

func (s *s3Store) Upload(ctx context.Context, asset *domain.Asset) (string, error) {
	key := objectKey(asset)
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(asset.Data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(asset.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	s.logger.InfoContext(ctx, "image uploaded", "provider", "s3", "key", key)
	return s.baseURL + "/" + key, nil
}

// objectKey places the asset under its folder with a random name and the original extension.
func objectKey(asset *domain.Asset) string {
	name := uuid.NewString() + strings.ToLower(path.Ext(asset.Filename))
	if asset.Folder == "" {
		return name
	}
	return strings.Trim(asset.Folder, "/") + "/" + name
}
