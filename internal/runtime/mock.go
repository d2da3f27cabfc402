package runtime

import (
	"context"
	"fmt"
	"sync"

	"translateapi/internal/core"
)

// MockRuntime is an in-memory runtime for tests. By default it accepts
// every load and echoes translations in bracketed form unless a
// canned translation is registered.
type MockRuntime struct {
	mu           sync.Mutex
	Translations map[string]string // source text -> translation
	LoadErr      error
	TranslateErr error

	LoadCount      int
	TranslateCount int
	LastLoadedID   string
	LastLoadedDir  string
	LastRequest    *core.TranslateRequest
}

// NewMockRuntime creates a mock runtime with a few canned translations.
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Translations: map[string]string{
			"Hello, world!":       "Bonjour, le monde!",
			"Hello, how are you?": "Hola, ¿cómo estás?",
		},
	}
}

// Load records the call and returns a deterministic reference.
func (m *MockRuntime) Load(ctx context.Context, modelID, artifactDir string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	m.LoadCount++
	m.LastLoadedID = modelID
	m.LastLoadedDir = artifactDir
	return fmt.Sprintf("ref-%s-%d", modelID, m.LoadCount), nil
}

// Translate returns the canned translation or the bracketed input.
func (m *MockRuntime) Translate(ctx context.Context, req core.TranslateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TranslateErr != nil {
		return "", m.TranslateErr
	}
	m.TranslateCount++
	reqCopy := req
	m.LastRequest = &reqCopy
	if translation, ok := m.Translations[req.Text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s]", req.Text), nil
}

// Unload is a no-op.
func (m *MockRuntime) Unload(ctx context.Context, ref string) error {
	return nil
}

// Health always reports healthy.
func (m *MockRuntime) Health(ctx context.Context) error {
	return nil
}

// Reset clears recorded calls.
func (m *MockRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCount = 0
	m.TranslateCount = 0
	m.LastLoadedID = ""
	m.LastLoadedDir = ""
	m.LastRequest = nil
}

var _ core.Runtime = (*MockRuntime)(nil)
