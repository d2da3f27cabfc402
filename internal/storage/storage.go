// Package storage persists aggregated request statistics across
// restarts, either to a JSON file or to Redis.
package storage

import (
	"context"
	"os"

	"translateapi/internal/core"
	"translateapi/internal/util"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const statsRedisKey = "translateapi:stats"

// InitStorage selects the stats backend: Redis when a URL is
// configured, the JSON file otherwise.
func InitStorage(redisURL, filePath string, logger core.Logger) (core.StatsStorage, error) {
	if redisURL != "" {
		store, err := NewRedisStorage(RedisStorageConfig{URL: redisURL, Key: statsRedisKey})
		if err != nil {
			return nil, err
		}
		logger.Info("Using Redis stats storage")
		return store, nil
	}
	logger.Info("Using file stats storage at '%s'", filePath)
	return NewFileStorage(filePath), nil
}

// FileStorage implements persistence using JSON files
type FileStorage struct {
	filePath string
}

// NewFileStorage creates a file-backed stats store.
func NewFileStorage(filePath string) *FileStorage {
	if filePath == "" {
		filePath = core.StatsFilePath
	}
	return &FileStorage{filePath: filePath}
}

// SaveStats writes the stats snapshot to disk.
func (fs *FileStorage) SaveStats(stats *core.RequestStats) error {
	data, err := sonic.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.filePath, data, core.FilePermissionReadWrite)
}

// LoadStats reads the last stats snapshot, returning empty stats when
// no file exists yet.
func (fs *FileStorage) LoadStats() (*core.RequestStats, error) {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &core.RequestStats{RequestHistory: []core.RequestRecord{}}, nil
		}
		return nil, err
	}

	var stats core.RequestStats
	if err := util.UnmarshalJSON(data, &stats); err != nil {
		return nil, err
	}
	if stats.RequestHistory == nil {
		stats.RequestHistory = []core.RequestRecord{}
	}
	return &stats, nil
}

// Close is a no-op for file storage.
func (fs *FileStorage) Close() error {
	return nil
}

// RedisStorage implements persistence using Redis
type RedisStorage struct {
	client *redis.Client
	ctx    context.Context
	key    string
}

// RedisStorageConfig Redis storage config
type RedisStorageConfig struct {
	URL string
	Key string
}

// NewRedisStorage connects to Redis and verifies the connection.
func NewRedisStorage(config RedisStorageConfig) (*RedisStorage, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	key := config.Key
	if key == "" {
		key = statsRedisKey
	}
	return &RedisStorage{client: client, ctx: ctx, key: key}, nil
}

// NewRedisStorageFromClient wraps an existing client, used in tests.
func NewRedisStorageFromClient(client *redis.Client, key string) *RedisStorage {
	if key == "" {
		key = statsRedisKey
	}
	return &RedisStorage{client: client, ctx: context.Background(), key: key}
}

// SaveStats stores the stats snapshot under the configured key.
func (rs *RedisStorage) SaveStats(stats *core.RequestStats) error {
	data, err := util.MarshalJSON(stats)
	if err != nil {
		return err
	}
	return rs.client.Set(rs.ctx, rs.key, data, 0).Err()
}

// LoadStats reads the last stats snapshot, returning empty stats when
// the key is absent.
func (rs *RedisStorage) LoadStats() (*core.RequestStats, error) {
	data, err := rs.client.Get(rs.ctx, rs.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &core.RequestStats{RequestHistory: []core.RequestRecord{}}, nil
		}
		return nil, err
	}

	var stats core.RequestStats
	if err := util.UnmarshalJSON(data, &stats); err != nil {
		return nil, err
	}
	if stats.RequestHistory == nil {
		stats.RequestHistory = []core.RequestRecord{}
	}
	return &stats, nil
}

// Close closes the Redis connection.
func (rs *RedisStorage) Close() error {
	return rs.client.Close()
}

var (
	_ core.StatsStorage = (*FileStorage)(nil)
	_ core.StatsStorage = (*RedisStorage)(nil)
)
