package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// MarshalJSON wraps Sonic for performance
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// UnmarshalJSON wraps Sonic for performance
func UnmarshalJSON(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// GetEnvWithDefault returns the env var value or a default when unset.
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool parses a boolean env var, returning the default when unset
// or unparsable.
func GetEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetEnvInt parses an integer env var, returning the default when unset
// or unparsable.
func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// NormalizePair lowercases and trims a translation pair key.
func NormalizePair(pair string) string {
	return strings.ToLower(strings.TrimSpace(pair))
}

// SplitPair splits a normalized pair key into source and target codes.
// Returns false when the key is not in "source-target" form.
func SplitPair(pair string) (string, string, bool) {
	parts := strings.SplitN(pair, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
