package artifact

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"translateapi/internal/core"
)

// LocalStore serves artifacts straight from the local filesystem.
// Fetching is a presence check only; there is no remote side to pull
// from or push to.
type LocalStore struct {
	modelDir string
	logger   core.Logger
}

// NewLocalStore creates a local artifact store rooted at modelDir.
func NewLocalStore(modelDir string, logger core.Logger) *LocalStore {
	return &LocalStore{modelDir: modelDir, logger: logger}
}

// FetchModel verifies the artifact directory exists locally.
func (s *LocalStore) FetchModel(ctx context.Context, loc core.StorageLocator) error {
	if !dirExists(loc.LocalDir) {
		return fmt.Errorf("model artifacts for '%s' not found at '%s'", loc.Pair, loc.LocalDir)
	}
	s.logger.Debug("Using local artifacts for '%s' at '%s'", loc.Pair, loc.LocalDir)
	return nil
}

// UploadModel has no remote target in local storage mode.
func (s *LocalStore) UploadModel(ctx context.Context, loc core.StorageLocator) error {
	return fmt.Errorf("local storage mode has no remote target to upload '%s' to", loc.Pair)
}

// List walks the local model directory and reports files as objects,
// keyed by their slash-separated relative paths.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]core.ObjectInfo, error) {
	var objects []core.ObjectInfo
	err := filepath.WalkDir(s.modelDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.modelDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, core.ObjectInfo{Key: key, Size: info.Size()})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return objects, nil
}

var _ core.ArtifactStore = (*LocalStore)(nil)
