package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotSupportedError_Message(t *testing.T) {
	err := &NotSupportedError{Pair: "en-xx", Supported: []string{"en-fr", "en-es"}}

	msg := err.Error()
	if !strings.Contains(msg, "en-xx") {
		t.Errorf("Expected message to name the pair, got %q", msg)
	}
	if !strings.Contains(msg, "en-fr, en-es") {
		t.Errorf("Expected message to list supported pairs, got %q", msg)
	}
}

func TestIsNotSupported(t *testing.T) {
	base := &NotSupportedError{Pair: "en-xx"}
	wrapped := fmt.Errorf("resolving model: %w", base)

	if !IsNotSupported(base) {
		t.Error("Expected IsNotSupported for bare NotSupportedError")
	}
	if !IsNotSupported(wrapped) {
		t.Error("Expected IsNotSupported for wrapped NotSupportedError")
	}
	if IsNotSupported(errors.New("other")) {
		t.Error("IsNotSupported should reject unrelated errors")
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &FetchError{Pair: "en-fr", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected FetchError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "en-fr") {
		t.Errorf("Expected message to name the pair, got %q", err.Error())
	}
}

func TestLoadError_WithoutCause(t *testing.T) {
	err := &LoadError{Pair: "en-es"}

	if err.Unwrap() != nil {
		t.Error("Expected nil unwrap without cause")
	}
	if !strings.Contains(err.Error(), "en-es") {
		t.Errorf("Expected message to name the pair, got %q", err.Error())
	}
}
