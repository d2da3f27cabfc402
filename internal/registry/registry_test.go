package registry

import (
	"testing"

	"translateapi/internal/core"
)

var testLanguages = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
}

func newTestRegistry(t *testing.T, mappings map[string]string) *Registry {
	t.Helper()
	return New(mappings, testLanguages, &core.NopLogger{})
}

func TestResolve_KnownPair(t *testing.T) {
	r := newTestRegistry(t, map[string]string{
		"en-fr": "opus-mt-en-fr",
		"en-es": "opus-mt-en-es",
	})

	tp, err := r.Resolve("en-fr")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if tp.ModelID != "opus-mt-en-fr" {
		t.Errorf("Expected 'opus-mt-en-fr', got %q", tp.ModelID)
	}
	if tp.Source != "en" || tp.Target != "fr" {
		t.Errorf("Expected en/fr, got %q/%q", tp.Source, tp.Target)
	}
}

func TestResolve_EveryConfiguredPairHasModelID(t *testing.T) {
	r := newTestRegistry(t, map[string]string{
		"en-fr": "opus-mt-en-fr",
		"en-es": "opus-mt-en-es",
		"fr-en": "opus-mt-fr-en",
	})

	for _, pair := range r.Pairs() {
		tp, err := r.Resolve(pair)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", pair, err)
		}
		if tp.ModelID == "" {
			t.Errorf("Resolve(%q) returned empty model identifier", pair)
		}
	}
}

func TestResolve_UnknownPairFailsNotSupported(t *testing.T) {
	r := newTestRegistry(t, map[string]string{"en-fr": "opus-mt-en-fr"})

	_, err := r.Resolve("en-de")
	if err == nil {
		t.Fatal("Expected error for unknown pair")
	}
	if !core.IsNotSupported(err) {
		t.Errorf("Expected NotSupportedError, got %T", err)
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	r := newTestRegistry(t, map[string]string{"EN-FR": "opus-mt-en-fr"})

	if _, err := r.Resolve("En-Fr"); err != nil {
		t.Errorf("Expected case-insensitive resolution, got %v", err)
	}
}

func TestNew_DropsInvalidEntries(t *testing.T) {
	r := newTestRegistry(t, map[string]string{
		"en-fr":  "opus-mt-en-fr",
		"enfr":   "malformed-key",
		"en-xx":  "unknown-target",
		"xx-en":  "unknown-source",
		"en-es":  "",
		"fr-en ": "opus-mt-fr-en",
	})

	if r.Len() != 2 {
		t.Errorf("Expected 2 surviving pairs, got %d: %v", r.Len(), r.Pairs())
	}
	if !r.Contains("en-fr") || !r.Contains("fr-en") {
		t.Errorf("Expected en-fr and fr-en to survive, got %v", r.Pairs())
	}
}

func TestPairs_Sorted(t *testing.T) {
	r := newTestRegistry(t, map[string]string{
		"fr-en": "a",
		"en-es": "b",
		"en-fr": "c",
	})

	pairs := r.Pairs()
	expected := []string{"en-es", "en-fr", "fr-en"}
	for i, key := range expected {
		if pairs[i] != key {
			t.Errorf("Expected sorted pairs %v, got %v", expected, pairs)
			break
		}
	}
}

func TestLanguageName(t *testing.T) {
	r := newTestRegistry(t, map[string]string{"en-fr": "opus-mt-en-fr"})

	if name := r.LanguageName("fr"); name != "French" {
		t.Errorf("Expected 'French', got %q", name)
	}
	if name := r.LanguageName("zz"); name != "zz" {
		t.Errorf("Expected fallback to code, got %q", name)
	}
}
