package util

import "testing"

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("UTIL_TEST_KEY", "value")
	if got := GetEnvWithDefault("UTIL_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("Expected 'value', got %q", got)
	}
	if got := GetEnvWithDefault("UTIL_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("Expected 'fallback', got %q", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("UTIL_TEST_BOOL", "True")
	if !GetEnvBool("UTIL_TEST_BOOL", false) {
		t.Error("Expected true for 'True'")
	}

	t.Setenv("UTIL_TEST_BOOL", "notabool")
	if GetEnvBool("UTIL_TEST_BOOL", false) {
		t.Error("Expected default for unparsable value")
	}

	if GetEnvBool("UTIL_TEST_BOOL_MISSING", true) != true {
		t.Error("Expected default for unset var")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("UTIL_TEST_INT", "42")
	if got := GetEnvInt("UTIL_TEST_INT", 7); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}

	t.Setenv("UTIL_TEST_INT", "x")
	if got := GetEnvInt("UTIL_TEST_INT", 7); got != 7 {
		t.Errorf("Expected default 7, got %d", got)
	}
}

func TestNormalizePair(t *testing.T) {
	if got := NormalizePair("  EN-FR "); got != "en-fr" {
		t.Errorf("Expected 'en-fr', got %q", got)
	}
}

func TestSplitPair(t *testing.T) {
	source, target, ok := SplitPair("en-fr")
	if !ok || source != "en" || target != "fr" {
		t.Errorf("Expected en/fr, got %q/%q ok=%v", source, target, ok)
	}

	for _, bad := range []string{"enfr", "-fr", "en-", ""} {
		if _, _, ok := SplitPair(bad); ok {
			t.Errorf("Expected SplitPair(%q) to fail", bad)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := MarshalJSON(map[string]string{"en-fr": "opus-mt-en-fr"})
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	var out map[string]string
	if err := UnmarshalJSON(data, &out); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if out["en-fr"] != "opus-mt-en-fr" {
		t.Errorf("Round trip mismatch: %v", out)
	}
}
