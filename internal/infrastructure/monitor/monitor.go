package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskmaster/backend/internal/infrastructure/kv"
)

const probeKey = "monitor:probe"

// Monitor periodically checks that the key-value store still answers and
// logs transitions between healthy and degraded. The /health endpoint stays
// contractually ok; this exists for operators reading the logs.
type Monitor struct {
	store    kv.Store
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	healthy bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a monitor over the given store.
func New(store kv.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		interval: interval,
		logger:   logger,
		healthy:  true,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background probe loop.
func (m *Monitor) Start() {
	go func() {
		defer close(m.doneCh)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.probe()
			case <-m.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the probe loop and waits for it to exit.
func (m *Monitor) Stop() {
	close(m.stopCh)
	<-m.doneCh
}

// Healthy reports the result of the latest probe.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	_, err := m.store.Get(ctx, probeKey)
	ok := err == nil || kv.IsNotFound(err)

	m.mu.Lock()
	was := m.healthy
	m.healthy = ok
	m.mu.Unlock()

	switch {
	case was && !ok:
		m.logger.Warn("kv store degraded", zap.Error(err))
	case !was && ok:
		m.logger.Info("kv store recovered")
	}
}
