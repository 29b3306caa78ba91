package aws

import (
	"catalog/pkg/config"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/storage/s3/v2"
)

// S3 stores product images in an S3 compatible bucket such as MinIO.
type S3 struct {
	bucket   *s3.Storage
	endpoint string
	name     string
	region   string
}

func NewS3Bucket(cfg *config.AppConfig) *S3 {
	bucket := s3.New(s3.Config{
		Endpoint: cfg.AWSEndpoint,
		Bucket:   cfg.AWSBucket,
		Region:   cfg.AWSDefaultRegion,
		Credentials: s3.Credentials{
			AccessKey:       cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return &S3{
		bucket:   bucket,
		endpoint: cfg.AWSEndpoint,
		name:     cfg.AWSBucket,
		region:   cfg.AWSDefaultRegion,
	}
}

func (s *S3) Upload(key string, data []byte) error {
	return s.bucket.Set(key, data, 0)
}

func (s *S3) Delete(key string) error {
	return s.bucket.Delete(key)
}

func (s *S3) Close() error {
	return s.bucket.Close()
}

// URL is the public address of key.
func (s *S3) URL(key string) string {
	return ObjectURL(s.endpoint, s.name, s.region, key)
}

// ObjectURL builds a path-style URL for custom endpoints (MinIO) and a
// virtual-hosted URL for AWS. Without either it returns key unchanged.
func ObjectURL(endpoint, bucket, region, key string) string {
	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, key)
	}
	if region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	}
	return key
}
