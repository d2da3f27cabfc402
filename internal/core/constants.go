package core

import "time"

// API identity constants
const (
	APIName        = "Translation API"
	APIVersion     = "v0.0.1"
	APIDescription = "API for text translation using pre-trained Transformer models."
)

// Storage mode constants
const (
	StorageModeLocal = "local"
	StorageModeS3    = "s3"
)

// AvailableStorageModes lists the valid model storage modes.
var AvailableStorageModes = []string{StorageModeS3, StorageModeLocal}

// Server defaults
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = "8000"
	DefaultLogLevel  = "debug"
	DefaultRateLimit = 120
)

// Model storage defaults
const (
	DefaultLocalModelDir       = "models/downloads"
	DefaultModelsConfigPath    = "config/models.json"
	DefaultLanguagesConfigPath = "config/languages.json"
	DefaultStartupModelLimit   = 2
	ModelFileType              = "ONNX"
	ModelConfigFileName        = "config.json"
)

// Generation parameter defaults, matching the runtime's decoder settings.
const (
	DefaultMaxLength = 512
	DefaultNumBeams  = 4
)

// Runtime client constants
const (
	DefaultRuntimeURL     = "http://127.0.0.1:8500"
	RuntimeRequestTimeout = 2 * time.Minute
	RuntimeLoadTimeout    = 5 * time.Minute
)

// Stats and monitoring constants
const (
	StatsFilePath        = "stats.json"
	MinSaveInterval      = 5 * time.Second
	HistoryBufferSize    = 1000
	HistoryBatchSize     = 100
	HistoryFlushInterval = 100 * time.Millisecond
)

// Cache config constants
const (
	CacheDefaultCapacity = 256
	CacheCleanupInterval = 5 * time.Minute
	ModelConfigCacheTTL  = 10 * time.Minute
)

// File permission constants
const (
	FilePermissionReadWrite = 0o644
	DirPermissionDefault    = 0o755
)

// HTTP header constants
const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
	CORSMaxAge        = "86400"
)
