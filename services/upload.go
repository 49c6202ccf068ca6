package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/errs"
)

const MaxImageSize int64 = 5 << 20

// imageExtensions maps the accepted, sniffed content types to the key suffix.
// SVG is left out because it can carry script.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// ObjectStorage stores a blob and returns its public URL.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client     s3API
	bucket     string
	publicBase string
}

// NewS3Storage builds a client from the default AWS credential chain. It needs
// S3_BUCKET; S3_REGION and S3_PUBLIC_BASE_URL are optional.
func NewS3Storage(ctx context.Context, cfg map[string]string) (*S3Storage, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewConfigMissingError("S3_BUCKET")
	}
	region := config.GetString(cfg, "S3_REGION", "us-east-1")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	publicBase := config.GetString(cfg, "S3_PUBLIC_BASE_URL", fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region))
	return newS3Storage(s3.NewFromConfig(awsCfg), bucket, publicBase), nil
}

func newS3Storage(client s3API, bucket, publicBase string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, publicBase: strings.TrimSuffix(publicBase, "/")}
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", errs.NewObjectStorageError("upload", err)
	}
	return s.publicBase + "/" + key, nil
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// ImageUploader accepts images for posts and projects. The type is sniffed
// from the bytes; the client's declared type is not trusted.
type ImageUploader struct {
	storage ObjectStorage
	logger  zerolog.Logger
}

func NewImageUploader(storage ObjectStorage) *ImageUploader {
	return &ImageUploader{
		storage: storage,
		logger:  log.With().Str("service", "upload").Logger(),
	}
}

func (u *ImageUploader) Upload(ctx context.Context, r io.Reader) (*UploadResult, error) {
	if u.storage == nil {
		return nil, errs.NewConfigMissingError("S3_BUCKET")
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, errs.NewMalformedPayloadError("upload", err)
	}
	if int64(len(data)) > MaxImageSize {
		return nil, errs.NewMaxBodySizeExceededError(MaxImageSize)
	}
	if len(data) == 0 {
		return nil, errs.NewMissingRequiredFieldError("file")
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, errs.NewUnsupportedMediaTypeError(contentType, allowedImageTypes())
	}

	key := "uploads/" + uuid.NewString() + ext
	url, err := u.storage.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	u.logger.Info().Str("key", key).Int("size", len(data)).Msg("image uploaded")
	return &UploadResult{URL: url, Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}

func allowedImageTypes() string {
	types := make([]string, 0, len(imageExtensions))
	for t := range imageExtensions {
		types = append(types, t)
	}
	sort.Strings(types)
	return strings.Join(types, ", ")
}
