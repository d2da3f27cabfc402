package modelcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"translateapi/internal/core"
	"translateapi/internal/registry"
	"translateapi/internal/runtime"
)

var testLanguages = map[string]string{"en": "English", "fr": "French", "es": "Spanish"}

type fakeStore struct {
	fetchErr   error
	fetchCount int
	createDir  bool
}

func (f *fakeStore) FetchModel(ctx context.Context, loc core.StorageLocator) error {
	f.fetchCount++
	if f.fetchErr != nil {
		return f.fetchErr
	}
	if f.createDir {
		return os.MkdirAll(loc.LocalDir, core.DirPermissionDefault)
	}
	return nil
}

func (f *fakeStore) UploadModel(ctx context.Context, loc core.StorageLocator) error { return nil }

func (f *fakeStore) List(ctx context.Context, prefix string) ([]core.ObjectInfo, error) {
	return nil, nil
}

type fakeGauge struct {
	mu   sync.Mutex
	last int
}

func (g *fakeGauge) SetLoadedModels(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = count
}

func (g *fakeGauge) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func newTestCache(t *testing.T, mode string, store core.ArtifactStore, rt core.Runtime) (*ModelCache, string) {
	t.Helper()
	modelDir := t.TempDir()
	reg := registry.New(map[string]string{
		"en-fr": "opus-mt-en-fr",
		"en-es": "opus-mt-en-es",
	}, testLanguages, &core.NopLogger{})

	cache := New(Config{
		Registry:      reg,
		Store:         store,
		Runtime:       rt,
		StorageMode:   mode,
		LocalModelDir: modelDir,
		Logger:        &core.NopLogger{},
	})
	return cache, modelDir
}

func createArtifactDir(t *testing.T, modelDir, pair string) {
	t.Helper()
	dir := filepath.Join(modelDir, pair)
	if err := os.MkdirAll(dir, core.DirPermissionDefault); err != nil {
		t.Fatalf("Failed to create artifact dir: %v", err)
	}
	configPath := filepath.Join(dir, core.ModelConfigFileName)
	if err := os.WriteFile(configPath, []byte(`{}`), core.FilePermissionReadWrite); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestGet_LoadsOnceForSequentialRequests(t *testing.T) {
	rt := runtime.NewMockRuntime()
	cache, modelDir := newTestCache(t, core.StorageModeLocal, &fakeStore{}, rt)
	createArtifactDir(t, modelDir, "en-fr")

	first, err := cache.Get(context.Background(), "en-fr")
	if err != nil {
		t.Fatalf("First Get failed: %v", err)
	}
	second, err := cache.Get(context.Background(), "en-fr")
	if err != nil {
		t.Fatalf("Second Get failed: %v", err)
	}

	if first != second {
		t.Error("Expected the same handle from both requests")
	}
	if rt.LoadCount != 1 {
		t.Errorf("Expected exactly one runtime load, got %d", rt.LoadCount)
	}
}

func TestGet_ConcurrentRequestsDeduplicated(t *testing.T) {
	rt := runtime.NewMockRuntime()
	cache, modelDir := newTestCache(t, core.StorageModeLocal, &fakeStore{}, rt)
	createArtifactDir(t, modelDir, "en-fr")

	var wg sync.WaitGroup
	handles := make([]*core.ModelHandle, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := cache.Get(context.Background(), "en-fr")
			if err != nil {
				t.Errorf("Concurrent Get failed: %v", err)
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()

	if rt.LoadCount != 1 {
		t.Errorf("Expected one load under concurrent first requests, got %d", rt.LoadCount)
	}
	for i := 1; i < len(handles); i++ {
		if handles[i] != handles[0] {
			t.Error("Expected all goroutines to receive the same handle")
			break
		}
	}
}

func TestGet_UnsupportedPairNoLoadAttempt(t *testing.T) {
	rt := runtime.NewMockRuntime()
	store := &fakeStore{}
	cache, _ := newTestCache(t, core.StorageModeS3, store, rt)

	_, err := cache.Get(context.Background(), "en-de")
	if err == nil {
		t.Fatal("Expected error for unsupported pair")
	}
	if !core.IsNotSupported(err) {
		t.Errorf("Expected NotSupportedError, got %T", err)
	}
	if store.fetchCount != 0 || rt.LoadCount != 0 {
		t.Error("Unsupported pair must not touch the store or runtime")
	}
}

func TestGet_MissingArtifactsIsLoadError(t *testing.T) {
	rt := runtime.NewMockRuntime()
	cache, _ := newTestCache(t, core.StorageModeLocal, &fakeStore{}, rt)

	_, err := cache.Get(context.Background(), "en-fr")
	if err == nil {
		t.Fatal("Expected error for missing artifacts")
	}
	var loadErr *core.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("Expected LoadError, got %T: %v", err, err)
	}
	if rt.LoadCount != 0 {
		t.Error("Runtime must not be asked to load missing artifacts")
	}
}

func TestGet_RemoteFetchFailureIsFetchError(t *testing.T) {
	rt := runtime.NewMockRuntime()
	store := &fakeStore{fetchErr: errors.New("bucket unreachable")}
	cache, _ := newTestCache(t, core.StorageModeS3, store, rt)

	_, err := cache.Get(context.Background(), "en-fr")
	if err == nil {
		t.Fatal("Expected error for failed remote fetch")
	}
	var fetchErr *core.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("Expected FetchError, got %T: %v", err, err)
	}
}

func TestGet_S3ModeFetchesThenLoads(t *testing.T) {
	rt := runtime.NewMockRuntime()
	store := &fakeStore{createDir: true}
	cache, _ := newTestCache(t, core.StorageModeS3, store, rt)

	handle, err := cache.Get(context.Background(), "en-fr")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if store.fetchCount != 1 {
		t.Errorf("Expected one fetch, got %d", store.fetchCount)
	}
	if handle.ModelID != "opus-mt-en-fr" {
		t.Errorf("Expected model id carried onto handle, got %q", handle.ModelID)
	}
}

func TestGet_FailedLoadDoesNotPoisonEntry(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.LoadErr = errors.New("runtime down")
	cache, modelDir := newTestCache(t, core.StorageModeLocal, &fakeStore{}, rt)
	createArtifactDir(t, modelDir, "en-fr")

	if _, err := cache.Get(context.Background(), "en-fr"); err == nil {
		t.Fatal("Expected error while runtime is down")
	}

	rt.LoadErr = nil
	if _, err := cache.Get(context.Background(), "en-fr"); err != nil {
		t.Errorf("Expected retry to succeed after runtime recovery, got %v", err)
	}
}

func TestTranslate_AppliesGenerationDefaults(t *testing.T) {
	rt := runtime.NewMockRuntime()
	cache, modelDir := newTestCache(t, core.StorageModeLocal, &fakeStore{}, rt)
	createArtifactDir(t, modelDir, "en-fr")

	out, err := cache.Translate(context.Background(), "en-fr", core.TranslateRequest{Text: "Hello, world!"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "Bonjour, le monde!" {
		t.Errorf("Expected canned translation, got %q", out)
	}
	if rt.LastRequest.MaxLength != core.DefaultMaxLength {
		t.Errorf("Expected default max length %d, got %d", core.DefaultMaxLength, rt.LastRequest.MaxLength)
	}
	if rt.LastRequest.NumBeams != core.DefaultNumBeams {
		t.Errorf("Expected default num beams %d, got %d", core.DefaultNumBeams, rt.LastRequest.NumBeams)
	}
	if rt.LastRequest.ModelRef == "" {
		t.Error("Expected model reference set on runtime request")
	}
}

func TestLoadedAndGauge(t *testing.T) {
	rt := runtime.NewMockRuntime()
	gauge := &fakeGauge{}
	modelDir := t.TempDir()
	reg := registry.New(map[string]string{"en-fr": "opus-mt-en-fr"}, testLanguages, &core.NopLogger{})
	cache := New(Config{
		Registry:      reg,
		Store:         &fakeStore{},
		Runtime:       rt,
		StorageMode:   core.StorageModeLocal,
		LocalModelDir: modelDir,
		Logger:        &core.NopLogger{},
		Gauge:         gauge,
	})
	createArtifactDir(t, modelDir, "en-fr")

	if cache.Loaded("en-fr") {
		t.Error("Pair should not be loaded before first Get")
	}
	if _, err := cache.Get(context.Background(), "en-fr"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !cache.Loaded("en-fr") {
		t.Error("Pair should be loaded after Get")
	}
	if gauge.value() != 1 {
		t.Errorf("Expected gauge 1, got %d", gauge.value())
	}

	cache.Close(context.Background())
	if cache.Loaded("en-fr") {
		t.Error("Pair should be unloaded after Close")
	}
	if gauge.value() != 0 {
		t.Errorf("Expected gauge 0 after close, got %d", gauge.value())
	}
}

func TestPreload_RespectsLimit(t *testing.T) {
	rt := runtime.NewMockRuntime()
	cache, modelDir := newTestCache(t, core.StorageModeLocal, &fakeStore{}, rt)
	createArtifactDir(t, modelDir, "en-es")
	createArtifactDir(t, modelDir, "en-fr")

	cache.Preload(context.Background(), 1)
	if rt.LoadCount != 1 {
		t.Errorf("Expected one preload with limit 1, got %d", rt.LoadCount)
	}
}

func TestPreload_SkipsBrokenModels(t *testing.T) {
	rt := runtime.NewMockRuntime()
	cache, modelDir := newTestCache(t, core.StorageModeLocal, &fakeStore{}, rt)
	// en-es artifacts are missing; en-fr should still load.
	createArtifactDir(t, modelDir, "en-fr")

	cache.Preload(context.Background(), 2)
	if !cache.Loaded("en-fr") {
		t.Error("Expected en-fr to load despite en-es failure")
	}
	if cache.Loaded("en-es") {
		t.Error("en-es must not report loaded")
	}
}
