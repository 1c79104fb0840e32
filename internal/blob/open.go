package blob

import (
	"context"
	"fmt"
	"os"

	"optics-shop/internal/config"
)

// Open selects a Store implementation from configuration. S3 credentials are
// read from AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY when present.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Driver(cfg.BlobDriver) {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.BlobDir)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Region:          cfg.BlobS3Region,
			Bucket:          cfg.BlobS3Bucket,
			Endpoint:        cfg.BlobS3Endpoint,
			PathStyle:       cfg.BlobS3PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.BlobDriver)
	}
}
