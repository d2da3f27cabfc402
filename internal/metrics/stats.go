package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"translateapi/internal/core"
)

// atomicRequestStats thread-safe request statistics
type atomicRequestStats struct {
	TotalRequests      atomic.Int64
	SuccessfulRequests atomic.Int64
	FailedRequests     atomic.Int64
	TotalResponseTime  atomic.Int64
}

// ServiceConfig configuration for the stats Service
type ServiceConfig struct {
	SaveInterval time.Duration
	HistorySize  int
	Storage      core.StatsStorage
	Logger       core.Logger
}

// Service collects request statistics, keeps a bounded history, and
// periodically persists snapshots through the configured storage.
type Service struct {
	atomicStats    atomicRequestStats
	requestHistory []core.RequestRecord
	historyMu      sync.RWMutex
	maxHistorySize int

	storage         core.StatsStorage
	logger          core.Logger
	lastSaveTime    time.Time
	saveMu          sync.Mutex
	minSaveInterval time.Duration

	done             chan struct{}
	closeOnce        sync.Once
	historyBuffer    []core.RequestRecord
	bufferMu         sync.Mutex
	bufferFlushTimer *time.Ticker
}

// NewService creates a stats service and starts its flush loop.
func NewService(config ServiceConfig) *Service {
	s := &Service{
		maxHistorySize:  config.HistorySize,
		storage:         config.Storage,
		logger:          config.Logger,
		minSaveInterval: config.SaveInterval,
		done:            make(chan struct{}),
		historyBuffer:   make([]core.RequestRecord, 0, core.HistoryBatchSize),
	}

	s.bufferFlushTimer = time.NewTicker(core.HistoryFlushInterval)
	go s.flushLoop()

	return s
}

func (s *Service) flushLoop() {
	for {
		select {
		case <-s.bufferFlushTimer.C:
			s.flushBuffer()
		case <-s.done:
			return
		}
	}
}

func (s *Service) flushBuffer() {
	s.bufferMu.Lock()
	if len(s.historyBuffer) == 0 {
		s.bufferMu.Unlock()
		return
	}
	batch := s.historyBuffer
	s.historyBuffer = make([]core.RequestRecord, 0, core.HistoryBatchSize)
	s.bufferMu.Unlock()

	s.historyMu.Lock()
	s.requestHistory = append(s.requestHistory, batch...)
	if len(s.requestHistory) > s.maxHistorySize {
		s.requestHistory = s.requestHistory[len(s.requestHistory)-s.maxHistorySize:]
	}
	s.historyMu.Unlock()
}

// RecordRequest records one predict request outcome.
func (s *Service) RecordRequest(record core.RequestRecord) {
	s.atomicStats.TotalRequests.Add(1)
	s.atomicStats.TotalResponseTime.Add(record.DurationMs)
	if record.Success {
		s.atomicStats.SuccessfulRequests.Add(1)
	} else {
		s.atomicStats.FailedRequests.Add(1)
	}

	s.bufferMu.Lock()
	s.historyBuffer = append(s.historyBuffer, record)
	flushNow := len(s.historyBuffer) >= core.HistoryBatchSize
	s.bufferMu.Unlock()

	if flushNow {
		s.flushBuffer()
	}

	s.maybeSave()
}

// Snapshot returns the current aggregated stats with history.
func (s *Service) Snapshot() core.RequestStats {
	s.flushBuffer()

	s.historyMu.RLock()
	history := make([]core.RequestRecord, len(s.requestHistory))
	copy(history, s.requestHistory)
	s.historyMu.RUnlock()

	return core.RequestStats{
		TotalRequests:       s.atomicStats.TotalRequests.Load(),
		SuccessfulRequests:  s.atomicStats.SuccessfulRequests.Load(),
		FailedRequests:      s.atomicStats.FailedRequests.Load(),
		TotalResponseTimeMs: s.atomicStats.TotalResponseTime.Load(),
		RequestHistory:      history,
	}
}

// AverageResponseTimeMs returns the mean request duration.
func (s *Service) AverageResponseTimeMs() float64 {
	total := s.atomicStats.TotalRequests.Load()
	if total == 0 {
		return 0
	}
	return float64(s.atomicStats.TotalResponseTime.Load()) / float64(total)
}

// LoadStats seeds counters and history from persisted stats.
func (s *Service) LoadStats() error {
	if s.storage == nil {
		return nil
	}
	stats, err := s.storage.LoadStats()
	if err != nil {
		return err
	}

	s.atomicStats.TotalRequests.Store(stats.TotalRequests)
	s.atomicStats.SuccessfulRequests.Store(stats.SuccessfulRequests)
	s.atomicStats.FailedRequests.Store(stats.FailedRequests)
	s.atomicStats.TotalResponseTime.Store(stats.TotalResponseTimeMs)

	s.historyMu.Lock()
	s.requestHistory = stats.RequestHistory
	if len(s.requestHistory) > s.maxHistorySize && s.maxHistorySize > 0 {
		s.requestHistory = s.requestHistory[len(s.requestHistory)-s.maxHistorySize:]
	}
	s.historyMu.Unlock()
	return nil
}

func (s *Service) maybeSave() {
	if s.storage == nil {
		return
	}

	s.saveMu.Lock()
	if time.Since(s.lastSaveTime) < s.minSaveInterval {
		s.saveMu.Unlock()
		return
	}
	s.lastSaveTime = time.Now()
	s.saveMu.Unlock()

	stats := s.Snapshot()
	if err := s.storage.SaveStats(&stats); err != nil {
		s.logger.Warn("Failed to persist stats: %v", err)
	}
}

// Close flushes and persists pending stats and stops the flush loop.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.bufferFlushTimer.Stop()
		close(s.done)
	})

	if s.storage == nil {
		return nil
	}
	stats := s.Snapshot()
	return s.storage.SaveStats(&stats)
}
