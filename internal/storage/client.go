package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"meetingscribe/internal/config"
	"meetingscribe/internal/services"
)

// Client provides bucket-scoped access to the meeting audio store.
type Client struct {
	mc     *minio.Client
	bucket string
}

// New validates the storage configuration and constructs a client. An
// incomplete configuration is a configuration error, not a connectivity one.
func New(cfg config.Storage) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" ||
		strings.TrimSpace(cfg.AccessKey) == "" ||
		strings.TrimSpace(cfg.SecretKey) == "" ||
		strings.TrimSpace(cfg.Bucket) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "connect", "storage config is incomplete", nil)
	}

	endpoint, secure, err := parseEndpoint(cfg.URL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "connect", "invalid storage url", err)
	}

	region := strings.TrimSpace(cfg.Region)
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "connect", "create client", err)
	}

	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// ListCommonPrefixes lists the immediate child prefixes under prefix, with
// trailing slashes removed.
func (c *Client) ListCommonPrefixes(ctx context.Context, prefix string) ([]string, error) {
	var prefixes []string
	for object := range c.mc.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, services.Wrap(services.ErrConnectivity, "storage", "list prefixes", prefix, object.Err)
		}
		if !strings.HasSuffix(object.Key, "/") {
			continue
		}
		trimmed := strings.TrimSuffix(object.Key, "/")
		if trimmed != "" {
			prefixes = append(prefixes, trimmed)
		}
	}
	return prefixes, nil
}

// ListObjects lists every object key under prefix recursively.
func (c *Client) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for object := range c.mc.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, services.Wrap(services.ErrConnectivity, "storage", "list objects", prefix, object.Err)
		}
		if object.Key == "" || strings.HasSuffix(object.Key, "/") {
			continue
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

// Download fetches an object to dest, creating parent directories as needed.
func (c *Client) Download(ctx context.Context, key, dest string) error {
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create download directory: %w", err)
		}
	}
	if err := c.mc.FGetObject(ctx, c.bucket, key, dest, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	return nil
}

func parseEndpoint(raw string) (endpoint string, secure bool, err error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false, err
	}
	if parsed.Host == "" {
		return "", false, fmt.Errorf("no host in %q", raw)
	}
	return parsed.Host, parsed.Scheme == "https", nil
}
