package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"translateapi/internal/core"
	"translateapi/internal/util"

	"github.com/sony/gobreaker"
)

// HTTPRuntime is a client for a model-serving daemon reachable over
// HTTP. Calls go through a circuit breaker so a dead daemon fails fast
// instead of tying up request handlers.
type HTTPRuntime struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  core.Logger
}

// NewHTTPRuntime creates a runtime client for the daemon at baseURL.
func NewHTTPRuntime(baseURL string, logger core.Logger) *HTTPRuntime {
	r := &HTTPRuntime{
		baseURL: baseURL,
		http:    &http.Client{Timeout: core.RuntimeRequestTimeout},
		logger:  logger,
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "inference-runtime",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Runtime circuit breaker '%s' changed from %s to %s", name, from, to)
		},
	})
	return r
}

// Load registers local model artifacts with the daemon and returns the
// runtime-side model reference.
func (r *HTTPRuntime) Load(ctx context.Context, modelID, artifactDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, core.RuntimeLoadTimeout)
	defer cancel()

	var out loadResponse
	err := r.postJSON(ctx, "/models/load", loadRequest{Model: modelID, Path: artifactDir}, &out)
	if err != nil {
		return "", err
	}
	if out.Ref == "" {
		return "", fmt.Errorf("runtime returned empty model reference for '%s'", modelID)
	}
	return out.Ref, nil
}

// Translate runs one inference call against a loaded model.
func (r *HTTPRuntime) Translate(ctx context.Context, req core.TranslateRequest) (string, error) {
	payload := translateRequest{
		Model:         req.ModelRef,
		Text:          req.Text,
		MaxLength:     req.MaxLength,
		NumBeams:      req.NumBeams,
		EarlyStopping: req.EarlyStopping,
	}

	var out translateResponse
	if err := r.postJSON(ctx, "/translate", payload, &out); err != nil {
		return "", err
	}
	return out.Translation, nil
}

// Unload releases a loaded model on the daemon.
func (r *HTTPRuntime) Unload(ctx context.Context, ref string) error {
	return r.postJSON(ctx, "/models/unload", unloadRequest{Model: ref}, nil)
}

// Health probes the daemon's health endpoint.
func (r *HTTPRuntime) Health(ctx context.Context) error {
	_, err := r.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
		if err != nil {
			return nil, err
		}
		res, err := r.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = res.Body.Close() }()
		if res.StatusCode/100 != 2 {
			return nil, fmt.Errorf("runtime health status=%d", res.StatusCode)
		}
		return nil, nil
	})
	return err
}

func (r *HTTPRuntime) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := util.MarshalJSON(payload)
	if err != nil {
		return err
	}

	result, err := r.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)

		res, err := r.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = res.Body.Close() }()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}
		if res.StatusCode/100 != 2 {
			return nil, fmt.Errorf("runtime %s status=%d body=%s", path, res.StatusCode, truncate(data, 200))
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	data, _ := result.([]byte)
	return util.UnmarshalJSON(data, out)
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}

var _ core.Runtime = (*HTTPRuntime)(nil)
