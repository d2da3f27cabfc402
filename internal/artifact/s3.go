package artifact

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"translateapi/internal/core"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds connection settings for the S3-compatible object
// store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Overwrite bool
}

// S3Store stores model artifacts in an S3-compatible bucket. Objects
// under the bucket mirror the local model directory layout, so a model
// is the set of objects under its pair prefix.
type S3Store struct {
	client    *minio.Client
	bucket    string
	overwrite bool
	logger    core.Logger
}

// NewS3Store creates an S3 artifact store.
func NewS3Store(cfg S3Config, logger core.Logger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	logger.Info("S3 client initialized for bucket '%s' at '%s'", cfg.Bucket, cfg.Endpoint)
	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		overwrite: cfg.Overwrite,
		logger:    logger,
	}, nil
}

// FetchModel downloads all objects under the pair prefix into the
// local artifact directory, preserving relative paths. An existing
// local directory is left alone unless overwrite is configured.
func (s *S3Store) FetchModel(ctx context.Context, loc core.StorageLocator) error {
	if dirExists(loc.LocalDir) && !s.overwrite {
		s.logger.Debug("Artifacts for '%s' already present at '%s', skipping download", loc.Pair, loc.LocalDir)
		return nil
	}

	prefix := loc.RemotePrefix + "/"
	downloaded := 0
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return fmt.Errorf("listing '%s': %w", prefix, object.Err)
		}
		rel := object.Key[len(prefix):]
		localPath := filepath.Join(loc.LocalDir, filepath.FromSlash(rel))
		if err := s.client.FGetObject(ctx, s.bucket, object.Key, localPath, minio.GetObjectOptions{}); err != nil {
			return fmt.Errorf("downloading '%s': %w", object.Key, err)
		}
		downloaded++
	}

	if downloaded == 0 {
		return fmt.Errorf("no artifacts found under '%s' in bucket '%s'", prefix, s.bucket)
	}

	s.logger.Info("Downloaded %d artifact files for '%s' from bucket '%s'", downloaded, loc.Pair, s.bucket)
	return nil
}

// UploadModel pushes every file in the local artifact directory to the
// bucket under the pair prefix. S3 has no directories, so each file is
// uploaded individually with its relative path as the key suffix.
func (s *S3Store) UploadModel(ctx context.Context, loc core.StorageLocator) error {
	if !dirExists(loc.LocalDir) {
		return fmt.Errorf("local artifacts for '%s' not found at '%s'", loc.Pair, loc.LocalDir)
	}

	uploaded := 0
	err := filepath.WalkDir(loc.LocalDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(loc.LocalDir, p)
		if err != nil {
			return err
		}
		key := path.Join(loc.RemotePrefix, filepath.ToSlash(rel))
		if _, err := s.client.FPutObject(ctx, s.bucket, key, p, minio.PutObjectOptions{}); err != nil {
			return fmt.Errorf("uploading '%s': %w", key, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Uploaded %d artifact files for '%s' to bucket '%s'", uploaded, loc.Pair, s.bucket)
	return nil
}

// List reports the objects under an optional prefix with their sizes.
func (s *S3Store) List(ctx context.Context, prefix string) ([]core.ObjectInfo, error) {
	var objects []core.ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("listing bucket '%s': %w", s.bucket, object.Err)
		}
		objects = append(objects, core.ObjectInfo{Key: object.Key, Size: object.Size})
	}
	return objects, nil
}

var _ core.ArtifactStore = (*S3Store)(nil)
