package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/clouddrive/internal/client/config"
	"github.com/dmitrijs2005/clouddrive/internal/logging"
)

// objectAPI is the subset of the S3 client used by S3Backend.
// *s3.Client satisfies it; tests provide fakes.
type objectAPI interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// presignAPI is the subset of the S3 presign client used by S3Backend.
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Backend implements Backend over an S3-compatible object store.
type S3Backend struct {
	bucket  string
	limit   int32
	api     objectAPI
	presign presignAPI
	logger  logging.Logger
}

var _ Backend = (*S3Backend)(nil)

// NewS3Backend constructs a backend against the endpoint configured in cfg,
// using static credentials (MinIO-style deployments).
func NewS3Backend(ctx context.Context, cfg *config.Config, logger logging.Logger) (*S3Backend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,     // MINIO_ROOT_USER
			cfg.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Backend{
		bucket:  cfg.S3Bucket,
		limit:   int32(cfg.ListLimit),
		api:     client,
		presign: s3.NewPresignClient(client),
		logger:  logger.With("component", "storage"),
	}, nil
}

// List enumerates objects under prefix, up to the configured limit. Keys are
// returned by S3 in lexicographic order, which is the ascending name order
// the listing view relies on. Keys nested deeper than one segment below the
// prefix are skipped: a filename may not contain further path segments.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]FileMeta, error) {
	out, err := b.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(b.limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	metas := make([]FileMeta, 0, len(out.Contents))
	for _, obj := range out.Contents {
		name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		metas = append(metas, FileMeta{
			Name:         name,
			SizeBytes:    aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	return metas, nil
}

// CreateTemporaryLink issues a presigned GET URL for key, valid for ttl.
func (b *S3Backend) CreateTemporaryLink(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", key, err)
	}
	return req.URL, nil
}

// Upload writes the object at key. PutObject replaces an existing object
// with the same key, which gives the overwrite-allowed upload semantics.
func (b *S3Backend) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Remove deletes the given keys in one batch. Per-key delete failures are
// reported as a single aggregate error.
func (b *S3Backend) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ids := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
	}

	out, err := b.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	if len(out.Errors) > 0 {
		e := out.Errors[0]
		return fmt.Errorf("remove %s: %s (%d of %d keys failed)",
			aws.ToString(e.Key), aws.ToString(e.Message), len(out.Errors), len(keys))
	}
	return nil
}
