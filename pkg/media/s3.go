package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads images to a bucket and returns their public URL. The
// bucket policy, not this code, decides whether objects are world-readable.
type S3Store struct {
	client  putObjectAPI
	bucket  string
	prefix  string
	baseURL string
}

func NewS3Store(ctx context.Context, cfg config.MediaConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" || strings.HasPrefix(baseURL, "http://localhost") {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return newS3Store(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix, baseURL), nil
}

func newS3Store(client putObjectAPI, bucket, prefix, baseURL string) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3Store) Upload(ctx context.Context, obj Object) (string, error) {
	key, err := objectKey(s.prefix, obj)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        obj.Body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("putting object %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}
