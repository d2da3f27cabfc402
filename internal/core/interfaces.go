package core

import (
	"context"
	"time"
)

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// Runtime is the boundary to the external model-serving daemon.
// Load registers local artifacts with the runtime and returns a model
// reference usable in Translate calls until Unload.
type Runtime interface {
	Load(ctx context.Context, modelID, artifactDir string) (string, error)
	Translate(ctx context.Context, req TranslateRequest) (string, error)
	Unload(ctx context.Context, ref string) error
	Health(ctx context.Context) error
}

// ArtifactStore moves model artifacts between the local model directory
// and the configured backing store.
type ArtifactStore interface {
	FetchModel(ctx context.Context, loc StorageLocator) error
	UploadModel(ctx context.Context, loc StorageLocator) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// StatsStorage persists aggregated request statistics.
type StatsStorage interface {
	SaveStats(stats *RequestStats) error
	LoadStats() (*RequestStats, error)
	Close() error
}

// Cache is a TTL cache for small derived values.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, duration time.Duration)
	Stop()
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}
