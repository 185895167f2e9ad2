package s3backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/certsync/core/renewal"
)

// S3Client covers the single S3 operation the backup needs, so tests can
// substitute a fake without a live bucket.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Backup uploads certificate material to S3 after each successful renewal.
type Backup struct {
	client S3Client
	bucket string
	prefix string
	log    *slog.Logger
}

var _ renewal.Backup = (*Backup)(nil)

// Option configures a Backup.
type Option func(*Backup)

// WithLogger sets the logger used for upload diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(b *Backup) {
		if log != nil {
			b.log = log
		}
	}
}

// WithS3Client replaces the AWS SDK client, primarily for testing.
func WithS3Client(client S3Client) Option {
	return func(b *Backup) {
		b.client = client
	}
}

// New creates a Backup targeting the configured bucket. Static credentials
// are used when both keys are present; otherwise the default AWS chain
// applies. A custom endpoint switches the client to S3-compatible services.
func New(ctx context.Context, cfg Config, opts ...Option) (*Backup, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3backup: bucket name is required")
	}

	b := &Backup{
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{}
		if cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("s3backup: load aws config: %w", err)
		}

		b.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return b, nil
}

// Store uploads the certificate and its private key under the configured
// prefix. The certificate goes first so a partial failure never leaves a
// key in the bucket without the certificate it belongs to.
func (b *Backup) Store(ctx context.Context, name string, keyPEM, certPEM []byte) error {
	objects := []struct {
		key  string
		body []byte
	}{
		{b.objectKey(name, "cert.pem"), certPEM},
		{b.objectKey(name, "key.pem"), keyPEM},
	}

	for _, obj := range objects {
		_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:               aws.String(b.bucket),
			Key:                  aws.String(obj.key),
			Body:                 bytes.NewReader(obj.body),
			ContentType:          aws.String("application/x-pem-file"),
			ServerSideEncryption: types.ServerSideEncryptionAes256,
		})
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				return fmt.Errorf("s3backup: upload %s: %s: %w", obj.key, apiErr.ErrorCode(), err)
			}
			return fmt.Errorf("s3backup: upload %s: %w", obj.key, err)
		}
		b.log.Debug("backup object uploaded",
			slog.String("bucket", b.bucket),
			slog.String("key", obj.key))
	}

	return nil
}

func (b *Backup) objectKey(name, file string) string {
	return path.Join(b.prefix, name, file)
}
