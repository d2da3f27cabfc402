// Package modelcache keeps one loaded inference handle per translation
// pair for the lifetime of the process. Entries are populated lazily on
// first use and never evicted.
package modelcache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"translateapi/internal/artifact"
	"translateapi/internal/core"
	"translateapi/internal/registry"
)

// LoadGauge receives the current number of loaded models. Optional.
type LoadGauge interface {
	SetLoadedModels(count int)
}

// Config wires the model cache's collaborators.
type Config struct {
	Registry      *registry.Registry
	Store         core.ArtifactStore
	Runtime       core.Runtime
	StorageMode   string
	LocalModelDir string
	Logger        core.Logger
	Gauge         LoadGauge
}

type entry struct {
	mu     sync.Mutex
	handle *core.ModelHandle
}

// ModelCache is the lazy pair-to-handle cache.
type ModelCache struct {
	mu          sync.Mutex
	entries     map[string]*entry
	loadedCount atomic.Int64

	registry      *registry.Registry
	store         core.ArtifactStore
	runtime       core.Runtime
	storageMode   string
	localModelDir string
	logger        core.Logger
	gauge         LoadGauge
}

// New creates a model cache.
func New(cfg Config) *ModelCache {
	return &ModelCache{
		entries:       make(map[string]*entry),
		registry:      cfg.Registry,
		store:         cfg.Store,
		runtime:       cfg.Runtime,
		storageMode:   cfg.StorageMode,
		localModelDir: cfg.LocalModelDir,
		logger:        cfg.Logger,
		gauge:         cfg.Gauge,
	}
}

// Get returns the handle for a pair, loading it on first use.
// Concurrent first requests for the same pair are serialized on the
// entry so the model loads once; a failed load leaves the entry empty
// for the next request to try again.
func (c *ModelCache) Get(ctx context.Context, pair string) (*core.ModelHandle, error) {
	tp, err := c.registry.Resolve(pair)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	e, ok := c.entries[tp.Key]
	if !ok {
		e = &entry{}
		c.entries[tp.Key] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle != nil {
		c.logger.Debug("Using cached model for '%s'", tp.Key)
		return e.handle, nil
	}

	handle, err := c.load(ctx, tp)
	if err != nil {
		return nil, err
	}
	e.handle = handle
	c.loadedCount.Add(1)
	c.updateGauge()
	return handle, nil
}

func (c *ModelCache) load(ctx context.Context, tp core.TranslationPair) (*core.ModelHandle, error) {
	loc := artifact.Locator(tp.Key, c.localModelDir)

	if c.storageMode == core.StorageModeS3 {
		if err := c.store.FetchModel(ctx, loc); err != nil {
			return nil, &core.FetchError{Pair: tp.Key, Cause: err}
		}
	}

	if !dirExists(loc.LocalDir) {
		return nil, &core.LoadError{
			Pair:  tp.Key,
			Cause: fmt.Errorf("artifacts missing at '%s'", loc.LocalDir),
		}
	}

	c.logger.Info("Loading model '%s' for '%s' from '%s'", tp.ModelID, tp.Key, loc.LocalDir)
	ref, err := c.runtime.Load(ctx, tp.ModelID, loc.LocalDir)
	if err != nil {
		return nil, &core.LoadError{Pair: tp.Key, Cause: err}
	}

	return &core.ModelHandle{
		Pair:     tp.Key,
		ModelID:  tp.ModelID,
		Ref:      ref,
		LoadedAt: time.Now(),
	}, nil
}

// Translate resolves the handle for a pair and runs one inference call,
// filling in generation parameter defaults.
func (c *ModelCache) Translate(ctx context.Context, pair string, req core.TranslateRequest) (string, error) {
	handle, err := c.Get(ctx, pair)
	if err != nil {
		return "", err
	}

	req.ModelRef = handle.Ref
	if req.MaxLength <= 0 {
		req.MaxLength = core.DefaultMaxLength
	}
	if req.NumBeams <= 0 {
		req.NumBeams = core.DefaultNumBeams
	}
	return c.runtime.Translate(ctx, req)
}

// Loaded reports whether a handle exists for the pair.
func (c *ModelCache) Loaded(pair string) bool {
	c.mu.Lock()
	e, ok := c.entries[pair]
	c.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle != nil
}

// Preload loads up to limit pairs from the registry, in sorted order.
// Load failures are logged and skipped so one broken model does not
// keep the server from starting.
func (c *ModelCache) Preload(ctx context.Context, limit int) {
	if limit <= 0 {
		return
	}
	loaded := 0
	for _, pair := range c.registry.Pairs() {
		if loaded >= limit {
			break
		}
		if _, err := c.Get(ctx, pair); err != nil {
			c.logger.Error("Preloading '%s' failed: %v", pair, err)
			continue
		}
		loaded++
	}
	c.logger.Info("Preloaded %d of %d translation pairs", loaded, c.registry.Len())
}

// Close unloads every handle from the runtime.
func (c *ModelCache) Close(ctx context.Context) {
	c.mu.Lock()
	entries := make(map[string]*entry, len(c.entries))
	for pair, e := range c.entries {
		entries[pair] = e
	}
	c.mu.Unlock()

	for pair, e := range entries {
		e.mu.Lock()
		if e.handle != nil {
			if err := c.runtime.Unload(ctx, e.handle.Ref); err != nil {
				c.logger.Warn("Unloading '%s' failed: %v", pair, err)
			}
			e.handle = nil
			c.loadedCount.Add(-1)
		}
		e.mu.Unlock()
	}
	c.updateGauge()
}

func (c *ModelCache) updateGauge() {
	if c.gauge == nil {
		return
	}
	c.gauge.SetLoadedModels(int(c.loadedCount.Load()))
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
