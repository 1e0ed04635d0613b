package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Config holds S3-compatible object storage configuration, populated from
// environment variables.
type Config struct {
	Bucket    string `env:"S3_BUCKET,required"`
	AccessKey string `env:"S3_ACCESS_KEY,required"`
	SecretKey string `env:"S3_SECRET_KEY,required"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`

	// Endpoint overrides the AWS endpoint for MinIO and other
	// S3-compatible services; PathStyle is required for MinIO.
	Endpoint  string `env:"S3_ENDPOINT"`
	PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"false"`

	// PublicURL is a CDN or public URL prefix. When set, URL() uses it
	// instead of the bucket's S3 address.
	PublicURL string `env:"S3_PUBLIC_URL"`

	// MaxUploadSize caps a single upload in bytes.
	MaxUploadSize int64 `env:"S3_MAX_UPLOAD_SIZE" envDefault:"5242880"`
}

// FileInfo describes an uploaded object.
type FileInfo struct {
	Key         string
	ContentType string
	Size        int64
}

// imageExtensions maps the accepted image MIME types to file extensions.
// Uploads with any other detected type are rejected.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore uploads user images to S3-compatible object storage. All
// objects are written public-read under uuid-based keys.
type ImageStore struct {
	client *s3.Client
	cfg    Config
}

// New creates an ImageStore for the configured bucket.
func New(cfg Config) (*ImageStore, error) {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrInvalidConfig
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &ImageStore{client: s3.New(s3.Options{}, opts...), cfg: cfg}, nil
}

// Put validates and uploads an image, returning the stored object's info.
// The content type is sniffed from the payload, never trusted from the
// client. Keys look like {prefix}/{uuid}.{ext}.
func (s *ImageStore) Put(ctx context.Context, r io.Reader, size int64, prefix string) (*FileInfo, error) {
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if size > s.cfg.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if int64(len(data)) > s.cfg.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	key := uuid.NewString() + ext
	if prefix != "" {
		key = strings.Trim(prefix, "/") + "/" + key
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &FileInfo{Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

// URL returns the public address of a stored object.
func (s *ImageStore) URL(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
		if s.cfg.PathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, s.cfg.Bucket, key)
		}
		return fmt.Sprintf("%s/%s", endpoint, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
