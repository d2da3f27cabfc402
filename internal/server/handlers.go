package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"translateapi/internal/core"
	"translateapi/internal/metrics"
	"translateapi/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) rootInfo(c *gin.Context) {
	c.JSON(http.StatusOK, core.RootResponse{
		Name:        core.APIName,
		Version:     core.APIVersion,
		Description: core.APIDescription,
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, core.HealthResponse{Status: "ok"})
}

func (s *Server) getStatsData(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":                    s.stats.Snapshot(),
		"average_response_time_ms": s.stats.AverageResponseTimeMs(),
	})
}

// listModels reports every pair whose artifacts are present locally,
// with language names and load state. config is included only when
// return_model_config=true because config files can be large.
func (s *Server) listModels(c *gin.Context) {
	returnConfig := c.Query("return_model_config") == "true"

	models := make(map[string]core.ModelDetail)
	for _, pair := range s.registry.Pairs() {
		tp, err := s.registry.Resolve(pair)
		if err != nil {
			continue
		}
		dir := filepath.Join(s.cfg.LocalModelDir, pair)
		if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
			continue
		}

		detail := core.ModelDetail{
			ModelName:      tp.ModelID,
			FileType:       core.ModelFileType,
			SourceLanguage: s.registry.LanguageName(tp.Source),
			TargetLanguage: s.registry.LanguageName(tp.Target),
			Loaded:         s.models.Loaded(pair),
		}
		if returnConfig {
			detail.Config = s.modelConfig(pair, dir)
		}
		models[pair] = detail
	}

	c.JSON(http.StatusOK, core.ModelsResponse{Models: models})
}

// modelConfig reads the model's config.json, caching parsed results so
// repeated listings do not hit the disk.
func (s *Server) modelConfig(pair, dir string) map[string]any {
	cacheKey := "model-config:" + pair
	if cached, ok := s.configCache.Get(cacheKey); ok {
		if cfg, valid := cached.(map[string]any); valid {
			return cfg
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, core.ModelConfigFileName)) //nolint:gosec // G304: path derived from configured model dir
	if err != nil {
		s.logger.Debug("No readable model config for '%s': %v", pair, err)
		return nil
	}
	var cfg map[string]any
	if err := util.UnmarshalJSON(data, &cfg); err != nil {
		s.logger.Warn("Malformed model config for '%s': %v", pair, err)
		return nil
	}

	s.configCache.Set(cacheKey, cfg, core.ModelConfigCacheTTL)
	return cfg
}

// predict translates a batch of texts for one pair. Items that fail are
// logged and skipped; each result carries the position of its input so
// callers can match partial output back to the batch.
func (s *Server) predict(c *gin.Context) {
	pair := util.NormalizePair(c.Param("pair"))

	if _, err := s.registry.Resolve(pair); err != nil {
		var nse *core.NotSupportedError
		if errors.As(err, &nse) {
			c.JSON(http.StatusUnprocessableEntity, core.ErrorResponse{Detail: nse.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, core.ErrorResponse{Detail: err.Error()})
		return
	}

	var req core.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, core.ErrorResponse{Detail: "Invalid request body: " + err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusUnprocessableEntity, core.ErrorResponse{Detail: "Request must contain at least one item."})
		return
	}

	requestID := uuid.NewString()
	start := time.Now()
	ctx := c.Request.Context()

	results := make([]core.PredictResult, 0, len(req.Items))
	var lastErr error
	for i, item := range req.Items {
		earlyStopping := true
		if item.EarlyStopping != nil {
			earlyStopping = *item.EarlyStopping
		}
		translated, err := s.models.Translate(ctx, pair, core.TranslateRequest{
			Text:          item.Text,
			MaxLength:     item.MaxLength,
			NumBeams:      item.NumBeams,
			EarlyStopping: earlyStopping,
		})
		if err != nil {
			lastErr = err
			s.logger.Error("Request %s: translating item %d for '%s' failed: %v", requestID, i, pair, err)
			continue
		}
		results = append(results, core.PredictResult{Position: i, Result: translated})
	}

	duration := time.Since(start)
	success := len(results) > 0

	status := metrics.StatusSuccess
	if !success {
		status = metrics.StatusError
	}
	s.prom.RecordRequest(pair, status)
	s.prom.ObserveTexts(pair, len(req.Items))
	if success {
		s.prom.ObserveLatency(pair, duration.Seconds())
	}
	s.stats.RecordRequest(core.RequestRecord{
		ID:         requestID,
		Timestamp:  start,
		Pair:       pair,
		TextCount:  len(req.Items),
		Success:    success,
		DurationMs: duration.Milliseconds(),
	})

	if !success {
		detail := "All translation attempts failed."
		var fe *core.FetchError
		var le *core.LoadError
		if errors.As(lastErr, &fe) || errors.As(lastErr, &le) {
			detail = lastErr.Error()
		}
		c.JSON(http.StatusInternalServerError, core.ErrorResponse{Detail: detail})
		return
	}

	c.JSON(http.StatusOK, core.PredictResponse{Results: results})
}
