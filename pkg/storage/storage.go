// Package storage persists uploaded profile photos when the app is
// configured for the uploads-directory variant instead of inline base64
// (PHOTO_DISK=local or PHOTO_DISK=s3).
//
// Two drivers are available:
//   - "local" — files under a root directory, served at STORAGE_URL
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/rechargehub/config"
)

// Disk is the photo storage driver interface.
type Disk interface {
	// Put writes content to path and returns nil on success.
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

// New builds the disk named by cfg.PhotoDisk. It is an error to call New
// when the app runs in inline mode.
func New(cfg *config.Config) (Disk, error) {
	switch cfg.PhotoDisk {
	case "local":
		return newLocalDisk(cfg.StorageLocalRoot, cfg.StorageURL), nil
	case "s3":
		return newS3Disk(cfg)
	default:
		return nil, fmt.Errorf("storage: no disk driver for PHOTO_DISK %q", cfg.PhotoDisk)
	}
}
