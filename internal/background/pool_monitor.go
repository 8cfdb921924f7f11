package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/searchdesk/internal/database"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatsSource reports connection pool statistics
type PoolStatsSource interface {
	PoolStats() database.PoolStats
}

// PoolMonitor periodically samples connection pool statistics into Prometheus gauges
type PoolMonitor struct {
	source   PoolStatsSource
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once

	connections  *prometheus.GaugeVec
	maxConns     prometheus.Gauge
	acquires     prometheus.Gauge
	emptyAcquire prometheus.Gauge
	saturated    bool
}

// NewPoolMonitor creates a pool monitor and registers its gauges with registerer.
// A nil registerer falls back to the default Prometheus registry.
func NewPoolMonitor(source PoolStatsSource, registerer prometheus.Registerer, logger *slog.Logger, interval time.Duration) *PoolMonitor {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &PoolMonitor{
		source:   source,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "searchdesk_db_pool_connections",
			Help: "Database pool connections by state.",
		}, []string{"state"}),
		maxConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "searchdesk_db_pool_max_connections",
			Help: "Configured maximum size of the database pool.",
		}),
		acquires: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "searchdesk_db_pool_acquires",
			Help: "Cumulative successful connection acquisitions.",
		}),
		emptyAcquire: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "searchdesk_db_pool_empty_acquires",
			Help: "Cumulative acquisitions that had to wait for a connection.",
		}),
	}

	registerer.MustRegister(m.connections, m.maxConns, m.acquires, m.emptyAcquire)
	return m
}

// Start samples immediately and then on every interval until ctx ends or Stop is called
func (m *PoolMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.sample()

	for {
		select {
		case <-ticker.C:
			m.sample()
		case <-m.stopCh:
			m.logger.Info("pool monitor stopped")
			return
		case <-ctx.Done():
			m.logger.Info("pool monitor context cancelled")
			return
		}
	}
}

// sample copies the current pool statistics into the gauges
func (m *PoolMonitor) sample() {
	stats := m.source.PoolStats()

	m.connections.WithLabelValues("total").Set(float64(stats.TotalConns))
	m.connections.WithLabelValues("idle").Set(float64(stats.IdleConns))
	m.connections.WithLabelValues("acquired").Set(float64(stats.AcquiredConns))
	m.maxConns.Set(float64(stats.MaxConns))
	m.acquires.Set(float64(stats.AcquireCount))
	m.emptyAcquire.Set(float64(stats.EmptyAcquireCount))

	// Warn once per saturation episode
	saturated := stats.MaxConns > 0 && stats.AcquiredConns >= stats.MaxConns
	if saturated && !m.saturated {
		m.logger.Warn("database pool saturated",
			slog.Int("acquired", int(stats.AcquiredConns)),
			slog.Int("max", int(stats.MaxConns)))
	}
	m.saturated = saturated
}

// Stop signals the monitor to stop. Safe to call more than once.
func (m *PoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}
