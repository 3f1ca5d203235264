// Package assets uploads event images to a third-party asset host.
package assets

import (
	"fmt"
	"log/slog"

	"devevents/internal/domain"
)

// Config selects and configures the asset host.
type Config struct {
	Provider      string
	CloudinaryURL string
	S3            S3Config
}

// NewAssetStore creates an AssetStore from config. Provider "cloudinary" (the default) uploads to
// Cloudinary; "s3" uploads to an S3-compatible bucket.
func NewAssetStore(config Config, logger *slog.Logger) (domain.AssetStore, error) {
	switch config.Provider {
	case "", "cloudinary":
		return NewCloudinaryStore(config.CloudinaryURL, logger)
	case "s3":
		return NewS3Store(config.S3, logger)
	default:
		return nil, fmt.Errorf("unknown asset provider %q", config.Provider)
	}
}
