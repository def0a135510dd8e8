package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/rs/zerolog/log"
)

const DefaultInterval = 5 * time.Minute

// Source produces alert batches for a watched area. Scans are expected to
// swallow per-destination failures and return whatever they could gather.
type Source interface {
	ScanTraffic(ctx context.Context, center geo.Coordinates, radiusMiles float64) []alerts.Alert
	ScanClosures(ctx context.Context, center geo.Coordinates, radiusMiles float64) []alerts.Alert
}

// Monitor re-scans a watched area on a fixed interval and hands significant
// batches to its callbacks. Nothing is retained between passes.
type Monitor struct {
	Source   Source
	Interval time.Duration

	mutex    sync.Mutex
	running  bool
	stopChan chan struct{}
}

func NewMonitor(source Source, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Monitor{
		Source:   source,
		Interval: interval,
	}
}

// Start begins periodic scanning. The first batch arrives after one full
// interval has elapsed - there is no synchronous initial scan. Calling
// Start while already running is a no-op.
func (m *Monitor) Start(center geo.Coordinates, radiusMiles float64, onTrafficAlerts func([]alerts.Alert), onClosureAlerts func([]alerts.Alert)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.running {
		return
	}

	m.running = true
	m.stopChan = make(chan struct{})

	log.Info().
		Str("center", center.String()).
		Float64("radius", radiusMiles).
		Str("interval", m.Interval.String()).
		Msg("Starting traffic monitor")

	go m.watchLoop(m.stopChan, center, radiusMiles, onTrafficAlerts, onClosureAlerts)
}

// Stop prevents any further scans from starting. An in-flight scan is left
// to finish. Stopping an idle monitor is a no-op.
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.running {
		return
	}

	m.running = false
	close(m.stopChan)

	log.Info().Msg("Stopped traffic monitor")
}

func (m *Monitor) IsRunning() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.running
}

func (m *Monitor) watchLoop(stopChan chan struct{}, center geo.Coordinates, radiusMiles float64, onTrafficAlerts func([]alerts.Alert), onClosureAlerts func([]alerts.Alert)) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			m.scan(center, radiusMiles, onTrafficAlerts, onClosureAlerts)
		}
	}
}

// scan runs both detectors over the ring. Each callback only fires when its
// significant batch is non-empty, and always sees a complete batch.
func (m *Monitor) scan(center geo.Coordinates, radiusMiles float64, onTrafficAlerts func([]alerts.Alert), onClosureAlerts func([]alerts.Alert)) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	trafficBatch := m.Source.ScanTraffic(ctx, center, radiusMiles)
	significantTraffic := alerts.Significant(trafficBatch)

	log.Debug().
		Int("batch", len(trafficBatch)).
		Int("significant", len(significantTraffic)).
		Msg("Traffic scan complete")

	if len(significantTraffic) > 0 {
		onTrafficAlerts(significantTraffic)
	}

	closureBatch := m.Source.ScanClosures(ctx, center, radiusMiles)
	significantClosures := alerts.SignificantClosures(closureBatch)

	log.Debug().
		Int("batch", len(closureBatch)).
		Int("significant", len(significantClosures)).
		Msg("Closure scan complete")

	if len(significantClosures) > 0 {
		onClosureAlerts(significantClosures)
	}
}
