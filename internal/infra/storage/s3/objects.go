package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned when the requested key does not exist in the bucket.
var ErrObjectNotFound = errors.New("s3: object not found")

// Client reads objects from an S3-compatible bucket.
type Client struct {
	bucket string
	client *minio.Client
	logger *slog.Logger
}

// NewClient configures a reader using the provided endpoint and credentials.
func NewClient(endpoint string, useSSL bool, accessKey, secretKey, bucket string, logger *slog.Logger) (*Client, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{bucket: bucket, client: minioClient, logger: logger}, nil
}

// Open streams the object stored under key. The caller closes the reader.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key = ObjectKey(key)
	if key == "" {
		return nil, errors.New("s3: object key is required")
	}
	// GetObject is lazy; Stat forces the request so a missing key fails here.
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3: get object: %w", err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, c.bucket, key)
		}
		return nil, fmt.Errorf("s3: stat object: %w", err)
	}
	c.logger.Info("s3 object opened", "bucket", c.bucket, "key", key, "size", info.Size)
	return obj, nil
}

// Ping checks the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("s3: bucket %q does not exist", c.bucket)
	}
	return nil
}

// ObjectKey strips an s3://bucket/ prefix and surrounding slashes from a location.
func ObjectKey(location string) string {
	location = strings.TrimSpace(location)
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		if i := strings.Index(rest, "/"); i >= 0 {
			location = rest[i+1:]
		} else {
			location = ""
		}
	}
	return strings.Trim(location, "/")
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}
