// Package server wires the HTTP API: routing, middleware, handlers and
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"translateapi/internal/artifact"
	"translateapi/internal/cache"
	"translateapi/internal/config"
	"translateapi/internal/core"
	"translateapi/internal/metrics"
	"translateapi/internal/modelcache"
	"translateapi/internal/registry"
	"translateapi/internal/runtime"

	"github.com/gin-gonic/gin"
)

// Options configures server construction. Runtime, Store and Storage
// may be pre-built (tests inject fakes here); when nil they are
// created from the config.
type Options struct {
	Config  config.Config
	Logger  core.Logger
	GinMode string

	Runtime core.Runtime
	Store   core.ArtifactStore
	Storage core.StatsStorage
}

// Server application server
type Server struct {
	host    string
	port    string
	ginMode string
	router  *gin.Engine

	registry    *registry.Registry
	models      *modelcache.ModelCache
	stats       *metrics.Service
	prom        *metrics.Prometheus
	configCache core.Cache
	rateLimiter *rateLimiter

	cfg    config.Config
	logger core.Logger

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewServer creates a server instance with all collaborators wired.
func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required in server options")
	}
	cfg := opts.Config
	logger := opts.Logger

	mappings, err := config.LoadPairMappings(cfg.ModelsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pair mappings: %w", err)
	}
	languages, err := config.LoadLanguageNames(cfg.LanguagesConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load language names: %w", err)
	}
	reg := registry.New(mappings, languages, logger)
	if reg.Len() == 0 {
		logger.Warn("No translation pairs configured")
	}

	rt := opts.Runtime
	if rt == nil {
		rt = runtime.NewHTTPRuntime(cfg.RuntimeURL, logger)
	}

	store := opts.Store
	if store == nil {
		store, err = artifact.NewStore(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	prom := metrics.NewPrometheus()

	stats := metrics.NewService(metrics.ServiceConfig{
		SaveInterval: core.MinSaveInterval,
		HistorySize:  core.HistoryBufferSize,
		Storage:      opts.Storage,
		Logger:       logger,
	})
	if err := stats.LoadStats(); err != nil {
		logger.Warn("Failed to load historical stats: %v", err)
	}

	models := modelcache.New(modelcache.Config{
		Registry:      reg,
		Store:         store,
		Runtime:       rt,
		StorageMode:   cfg.StorageMode,
		LocalModelDir: cfg.LocalModelDir,
		Logger:        logger,
		Gauge:         prom,
	})

	ginMode := opts.GinMode
	if ginMode == "" {
		ginMode = gin.ReleaseMode
		if cfg.LogLevel == "debug" {
			ginMode = gin.DebugMode
		}
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	server := &Server{
		host:           cfg.Host,
		port:           cfg.Port,
		ginMode:        ginMode,
		registry:       reg,
		models:         models,
		stats:          stats,
		prom:           prom,
		configCache:    cache.NewCache(),
		rateLimiter:    newRateLimiter(cfg.RateLimit),
		cfg:            cfg,
		logger:         logger,
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	server.setupRoutes()
	return server, nil
}

// Run starts the HTTP server, preloading models first, and blocks
// until shutdown.
func (s *Server) Run() error {
	s.setupGracefulShutdown()

	s.models.Preload(s.shutdownCtx, s.cfg.StartupModelLimit)

	srv := &http.Server{
		Addr:              s.host + ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute, // inference can be slow on cold models
	}

	go func() {
		<-s.shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server shutdown error: %v", err)
		}
	}()

	s.logger.Info("Server starting on %s:%s", s.host, s.port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) setupGracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		s.logger.Info("Shutdown signal received, shutting down gracefully...")
		s.shutdownCancel()
	}()
}

// Close releases loaded models and flushes pending stats.
func (s *Server) Close() error {
	s.shutdownCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.models.Close(ctx)

	s.configCache.Stop()
	return s.stats.Close()
}
