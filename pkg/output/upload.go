package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-solar-raytracer/pkg/config"
)

// UploadTimeout bounds a single frame upload
const UploadTimeout = 10 * time.Second

// Uploader stores encoded frames somewhere outside the process
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// S3Uploader puts frames into an S3-compatible bucket
type S3Uploader struct {
	client *s3.S3
	bucket string
	prefix string
}

// NewS3Uploader creates an uploader with static credentials and path-style
// addressing, which works against both AWS and self-hosted endpoints
func NewS3Uploader(cfg config.Storage) (*S3Uploader, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("storage not configured: bucket and credentials are required")
	}

	awsConfig := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Uploader{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Key joins the configured prefix and a frame name
func (u *S3Uploader) Key(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload puts data under the prefixed key
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	fullKey := u.Key(key)
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(fullKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}
	return nil
}

// UploadFrame encodes img and uploads it under name
func UploadFrame(ctx context.Context, u Uploader, name string, img image.Image, format Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return err
	}
	return u.Upload(ctx, name, buf.Bytes(), format.ContentType())
}
