package domain

import "context"

// Asset is a file handed to an AssetStore.
type Asset struct {
	Filename    string
	ContentType string
	Folder      string
	Data        []byte
}

// AssetStore stores blobs on a third-party host and returns their public HTTPS URL.
type AssetStore interface {
	Upload(ctx context.Context, asset *Asset) (secureURL string, err error)
}
