package monitor

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	trafficBatch []alerts.Alert
	closureBatch []alerts.Alert

	scans atomic.Int64
}

func (s *stubSource) ScanTraffic(_ context.Context, _ geo.Coordinates, _ float64) []alerts.Alert {
	s.scans.Add(1)
	return s.trafficBatch
}

func (s *stubSource) ScanClosures(_ context.Context, _ geo.Coordinates, _ float64) []alerts.Alert {
	return s.closureBatch
}

var testCenter = geo.Coordinates{Latitude: 40.7128, Longitude: -74.0060}

func TestMonitorDeliversSignificantBatches(t *testing.T) {
	source := &stubSource{
		trafficBatch: []alerts.Alert{
			{Type: alerts.AlertTypeTraffic, Severity: alerts.SeverityHigh},
			{Type: alerts.AlertTypeTraffic, Severity: alerts.SeverityLow},
		},
		closureBatch: []alerts.Alert{
			{Type: alerts.AlertTypeRoadClosure, Severity: alerts.SeverityCritical},
		},
	}

	trafficBatches := make(chan []alerts.Alert, 8)
	closureBatches := make(chan []alerts.Alert, 8)

	watcher := NewMonitor(source, 20*time.Millisecond)
	watcher.Start(testCenter, 5, func(batch []alerts.Alert) {
		trafficBatches <- batch
	}, func(batch []alerts.Alert) {
		closureBatches <- batch
	})
	defer watcher.Stop()

	select {
	case batch := <-trafficBatches:
		assert.Len(t, batch, 1)
		assert.Equal(t, alerts.SeverityHigh, batch[0].Severity)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a traffic batch before the timeout")
	}

	select {
	case batch := <-closureBatches:
		assert.Len(t, batch, 1)
		assert.Equal(t, alerts.SeverityCritical, batch[0].Severity)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a closure batch before the timeout")
	}
}

func TestMonitorNoInitialScan(t *testing.T) {
	source := &stubSource{}

	watcher := NewMonitor(source, time.Hour)
	watcher.Start(testCenter, 5, func([]alerts.Alert) {}, func([]alerts.Alert) {})
	defer watcher.Stop()

	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, source.scans.Load(), "first scan should wait for a full interval")
}

func TestMonitorSkipsEmptyBatches(t *testing.T) {
	source := &stubSource{
		trafficBatch: []alerts.Alert{
			{Type: alerts.AlertTypeTraffic, Severity: alerts.SeverityLow},
			{Type: alerts.AlertTypeTraffic, Severity: alerts.SeverityMedium},
		},
	}

	called := make(chan struct{}, 8)

	watcher := NewMonitor(source, 20*time.Millisecond)
	watcher.Start(testCenter, 5, func([]alerts.Alert) {
		called <- struct{}{}
	}, func([]alerts.Alert) {
		called <- struct{}{}
	})
	defer watcher.Stop()

	// Wait until a few scans have definitely run.
	deadline := time.Now().Add(2 * time.Second)
	for source.scans.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	assert.GreaterOrEqual(t, source.scans.Load(), int64(3))
	assert.Empty(t, called)
}

func TestMonitorStartStopIdempotent(t *testing.T) {
	source := &stubSource{}
	watcher := NewMonitor(source, time.Hour)

	assert.False(t, watcher.IsRunning())

	watcher.Start(testCenter, 5, func([]alerts.Alert) {}, func([]alerts.Alert) {})
	watcher.Start(testCenter, 5, func([]alerts.Alert) {}, func([]alerts.Alert) {})
	assert.True(t, watcher.IsRunning())

	watcher.Stop()
	watcher.Stop()
	assert.False(t, watcher.IsRunning())

	// A stopped monitor can be started again.
	watcher.Start(testCenter, 5, func([]alerts.Alert) {}, func([]alerts.Alert) {})
	assert.True(t, watcher.IsRunning())
	watcher.Stop()
}

func TestNewMonitorDefaultsInterval(t *testing.T) {
	watcher := NewMonitor(&stubSource{}, 0)
	assert.Equal(t, DefaultInterval, watcher.Interval)
}

func TestLoadConfigDefaultsRadius(t *testing.T) {
	configPath := t.TempDir() + "/regions.yaml"
	configYaml := `interval_minutes: 5
regions:
  - name: Downtown
    latitude: 40.7128
    longitude: -74.0060
    push_token: ExponentPushToken[abc]
    user_id: user-1
`
	assert.NoError(t, writeFile(configPath, configYaml))

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Len(t, config.Regions, 1)
	assert.Equal(t, 5.0, config.Regions[0].RadiusMiles)
	assert.Equal(t, testCenter, config.Regions[0].Center())
}

func TestLoadConfigRejectsEmpty(t *testing.T) {
	configPath := t.TempDir() + "/regions.yaml"
	assert.NoError(t, writeFile(configPath, "interval_minutes: 5\n"))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

func writeFile(path string, contents string) error {
	return os.WriteFile(path, []byte(contents), 0644)
}
