package config

import (
	"fmt"
	"os"
	"strings"

	"translateapi/internal/core"
	"translateapi/internal/util"
)

// Config holds the process-wide configuration resolved from the
// environment at startup.
type Config struct {
	StorageMode       string
	S3BucketName      string
	S3Endpoint        string
	S3Region          string
	S3AccessKey       string
	S3SecretKey       string
	S3UseSSL          bool
	OverwriteExisting bool

	LocalModelDir       string
	ModelsConfigPath    string
	LanguagesConfigPath string
	StartupModelLimit   int

	Host      string
	Port      string
	LogLevel  string
	RateLimit int

	RuntimeURL    string
	StatsRedisURL string
	StatsFilePath string
}

// LoadFromEnv resolves configuration from environment variables,
// applying defaults and validating the storage selection.
func LoadFromEnv(logger core.Logger) (Config, error) {
	cfg := Config{
		StorageMode:       strings.ToLower(strings.TrimSpace(util.GetEnvWithDefault("MODEL_STORAGE_MODE", core.StorageModeLocal))),
		S3BucketName:      os.Getenv("S3_BUCKET_NAME"),
		S3Endpoint:        util.GetEnvWithDefault("S3_ENDPOINT", "s3.amazonaws.com"),
		S3Region:          os.Getenv("S3_REGION"),
		S3AccessKey:       os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:       os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3UseSSL:          util.GetEnvBool("S3_USE_SSL", true),
		OverwriteExisting: util.GetEnvBool("OVERWRITE_EXISTING_MODELS", false),

		LocalModelDir:       util.GetEnvWithDefault("LOCAL_MODEL_DIR", core.DefaultLocalModelDir),
		ModelsConfigPath:    util.GetEnvWithDefault("MODELS_CONFIG_PATH", core.DefaultModelsConfigPath),
		LanguagesConfigPath: util.GetEnvWithDefault("LANGUAGES_CONFIG_PATH", core.DefaultLanguagesConfigPath),
		StartupModelLimit:   util.GetEnvInt("API_STARTUP_MODEL_LOADING_LIMIT", core.DefaultStartupModelLimit),

		Host:      util.GetEnvWithDefault("API_HOST", core.DefaultHost),
		Port:      util.GetEnvWithDefault("API_PORT", core.DefaultPort),
		LogLevel:  util.GetEnvWithDefault("API_LOG_LEVEL", core.DefaultLogLevel),
		RateLimit: util.GetEnvInt("RATE_LIMIT", core.DefaultRateLimit),

		RuntimeURL:    util.GetEnvWithDefault("RUNTIME_URL", core.DefaultRuntimeURL),
		StatsRedisURL: os.Getenv("STATS_REDIS_URL"),
		StatsFilePath: util.GetEnvWithDefault("STATS_FILE_PATH", core.StatsFilePath),
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	logger.Info("Configuration loaded: storage mode '%s', model dir '%s'", cfg.StorageMode, cfg.LocalModelDir)
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageMode {
	case core.StorageModeLocal:
	case core.StorageModeS3:
		if c.S3BucketName == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required when MODEL_STORAGE_MODE is '%s'", core.StorageModeS3)
		}
	default:
		return fmt.Errorf("MODEL_STORAGE_MODE must be one of %v, got '%s'", core.AvailableStorageModes, c.StorageMode)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	return nil
}

// pairMappingsFile is the on-disk shape of the pair mapping config.
type pairMappingsFile struct {
	Pairs map[string]string `json:"pairs"`
}

// LoadPairMappings loads the translation pair to model identifier
// mapping. Accepts either {"pairs": {...}} or a bare object mapping.
func LoadPairMappings(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from config, not user input
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var wrapped pairMappingsFile
	if err := util.UnmarshalJSON(data, &wrapped); err == nil && len(wrapped.Pairs) > 0 {
		return wrapped.Pairs, nil
	}

	var bare map[string]string
	if err := util.UnmarshalJSON(data, &bare); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return bare, nil
}

// LoadLanguageNames loads the language code to display name mapping.
func LoadLanguageNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from config, not user input
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var names map[string]string
	if err := util.UnmarshalJSON(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return names, nil
}
