package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Blob drivers.
const (
	BlobMemory = "memory"
	BlobFS     = "fs"
	BlobS3     = "s3"
)

// Validate checks the loaded configuration. Load calls it automatically;
// call it again after overriding fields by hand.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}
	if strings.TrimSpace(c.Auth.InitialUser) == "" {
		return fmt.Errorf("auth.initial_user is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch c.Blob.Driver {
	case BlobMemory:
	case BlobFS:
		if c.Blob.Dir == "" {
			return fmt.Errorf("blob.dir is required for the fs driver")
		}
	case BlobS3:
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket is required for the s3 driver")
		}
		if (c.Blob.S3.AccessKeyID == "") != (c.Blob.S3.SecretAccessKey == "") {
			return fmt.Errorf("blob.s3 access key id and secret must be set together")
		}
	default:
		return fmt.Errorf("blob.driver must be one of %s, %s, %s (got %q)", BlobMemory, BlobFS, BlobS3, c.Blob.Driver)
	}

	return nil
}

// SlogLevel parses the configured log level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, err
	}
	return level, nil
}
