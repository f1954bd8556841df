// Package evidence stores audio clips backing ledger entries in
// S3-compatible object storage.
package evidence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	ledgerapp "github.com/voiceledger/backend/internal/application/ledger"
	infraconfig "github.com/voiceledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3EvidenceStore implements the application port
var _ ledgerapp.EvidenceStore = (*S3EvidenceStore)(nil)

const audioContentType = "audio/ogg"

// S3EvidenceStore archives voice clips in an S3-compatible bucket.
// Keys are grouped by owner so one shopkeeper's clips can be listed
// or expired together.
type S3EvidenceStore struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	keyPrefix         string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3EvidenceStoreOption is a functional option for configuring S3EvidenceStore
type S3EvidenceStoreOption func(*S3EvidenceStore)

// WithLogger sets a custom logger for S3EvidenceStore
func WithLogger(logger *zap.Logger) S3EvidenceStoreOption {
	return func(s *S3EvidenceStore) {
		s.logger = logger
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3EvidenceStoreOption {
	return func(s *S3EvidenceStore) {
		s.presignExpiration = d
	}
}

// NewS3EvidenceStore creates a new S3EvidenceStore from configuration.
// It supports any S3-compatible storage backend (AWS S3, MinIO, etc.)
func NewS3EvidenceStore(cfg *infraconfig.EvidenceConfig, opts ...S3EvidenceStoreOption) (*S3EvidenceStore, error) {
	if cfg == nil {
		return nil, errors.New("evidence configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("evidence bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("evidence access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("evidence secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "ap-south-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
	})

	store := &S3EvidenceStore{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		keyPrefix:         strings.Trim(cfg.KeyPrefix, "/"),
		presignExpiration: 15 * time.Minute,
		logger:            zap.NewNop(),
	}
	if store.keyPrefix == "" {
		store.keyPrefix = "evidence"
	}

	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// Put uploads an audio clip and returns its storage key
func (s *S3EvidenceStore) Put(ctx context.Context, ownerID uuid.UUID, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio payload is empty")
	}

	key := fmt.Sprintf("%s/%s/%s.ogg", s.keyPrefix, ownerID, uuid.New())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(audio),
		ContentType: aws.String(audioContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload evidence: %w", err)
	}

	s.logger.Debug("Evidence archived",
		zap.String("owner_id", ownerID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(audio)),
	)
	return key, nil
}

// DownloadURL generates a presigned GET URL for playback of a stored clip
func (s *S3EvidenceStore) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	presignReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return presignReq.URL, time.Now().Add(s.presignExpiration), nil
}

// Delete removes a stored clip
func (s *S3EvidenceStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete evidence: %w", err)
	}
	return nil
}

// GetBucket returns the bucket name
func (s *S3EvidenceStore) GetBucket() string {
	return s.bucket
}
