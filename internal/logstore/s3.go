package logstore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config selects the bucket endpoint. Credentials come from the default
// AWS chain (environment, shared config, IRSA, instance metadata).
type S3Config struct {
	Region       string
	Endpoint     string // custom endpoint for S3-compatible stores
	UsePathStyle bool
}

// uploader is the subset of manager.Uploader used by S3Store.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store uploads logs to s3://bucket/key locations.
type S3Store struct {
	uploader uploader
}

// NewS3Store loads the AWS configuration and creates an S3Store.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 store: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Store{uploader: manager.NewUploader(client)}, nil
}

// Upload streams localPath to the s3:// location remote.
func (s *S3Store) Upload(ctx context.Context, localPath, remote string) error {
	bucket, key, err := ParseS3(remote)
	if err != nil {
		return err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("s3 store: open file: %w", err)
	}
	defer file.Close()

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("s3 store: upload s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// ParseS3 splits s3://bucket/key into its parts.
func ParseS3(loc string) (bucket, key string, err error) {
	scheme, rest := ParseLocation(loc)
	if scheme != SchemeS3 {
		return "", "", fmt.Errorf("s3 store: unsupported scheme %q", scheme)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 store: location %q needs a bucket and a key", loc)
	}
	return bucket, key, nil
}
