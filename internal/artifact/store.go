// Package artifact moves model artifact files between the local model
// directory and the configured backing store.
package artifact

import (
	"os"
	"path"
	"path/filepath"

	"translateapi/internal/config"
	"translateapi/internal/core"
)

// NewStore selects the artifact store implementation for the configured
// storage mode.
func NewStore(cfg config.Config, logger core.Logger) (core.ArtifactStore, error) {
	if cfg.StorageMode == core.StorageModeS3 {
		store, err := NewS3Store(S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3BucketName,
			UseSSL:    cfg.S3UseSSL,
			Overwrite: cfg.OverwriteExisting,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return NewLocalStore(cfg.LocalModelDir, logger), nil
}

// Locator resolves the storage locator for a pair under the configured
// local model directory. The remote prefix mirrors the local layout so
// uploads and downloads are symmetric.
func Locator(pair, localModelDir string) core.StorageLocator {
	return core.StorageLocator{
		Pair:         pair,
		LocalDir:     filepath.Join(localModelDir, pair),
		RemotePrefix: path.Join(filepath.ToSlash(localModelDir), pair),
	}
}

// dirExists reports whether path exists and is a directory.
func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
