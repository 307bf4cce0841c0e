package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// Storage reads and writes objects by key.
type Storage interface {
	// Get returns ErrNotFound for a missing key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Config holds S3-compatible storage settings. A zero Bucket means storage
// is not configured.
type Config struct {
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"` // MinIO and friends
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

func (c Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}

// Key joins parts into an object key below prefix. Leading slashes and
// parent references are dropped so keys never escape the prefix.
func Key(prefix string, parts ...string) string {
	clean := make([]string, 0, len(parts)+1)
	if p := strings.Trim(prefix, "/"); p != "" {
		clean = append(clean, p)
	}
	for _, part := range parts {
		part = path.Clean("/" + part)
		if part = strings.TrimPrefix(part, "/"); part != "" {
			clean = append(clean, part)
		}
	}
	return strings.Join(clean, "/")
}
