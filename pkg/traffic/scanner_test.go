package traffic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nyc = geo.Coordinates{Latitude: 40.7128, Longitude: -74.0060}

type fakeGeocoder struct {
	name string
	err  error
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, point geo.Coordinates) (string, error) {
	return g.name, g.err
}

const quietLeg = `{
	"duration": {"value": 600},
	"duration_in_traffic": {"value": 600},
	"steps": [{"duration": {"value": 600}, "duration_in_traffic": {"value": 600}}]
}`

// newFakeDirectionsServer answers with congestedLeg for the given
// destination and a free-flowing route for the other ring points.
func newFakeDirectionsServer(congestedDestination geo.Coordinates, congestedLeg string) *httptest.Server {
	congestedParam := fmt.Sprintf("%f,%f", congestedDestination.Latitude, congestedDestination.Longitude)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		leg := quietLeg
		if r.URL.Query().Get("destination") == congestedParam {
			leg = congestedLeg
		}

		fmt.Fprintf(w, `{"status": "OK", "routes": [{"legs": [%s]}]}`, leg)
	}))
}

func TestScanTrafficSingleCongestedRoute(t *testing.T) {
	congested := geo.RingAround(nyc, 5)[0]

	server := newFakeDirectionsServer(congested, `{
		"duration": {"value": 600},
		"duration_in_traffic": {"value": 900},
		"steps": [{"duration": {"value": 600}, "duration_in_traffic": {"value": 900}}]
	}`)
	defer server.Close()

	scanner := NewScanner(
		NewDirectionsClientWithBaseURL("test-key", server.URL),
		&fakeGeocoder{name: "Main St, New York, NY"},
	)

	batch := scanner.ScanTraffic(context.Background(), nyc, 5)
	require.Len(t, batch, 8, "every ring point answered")

	// A 50% delay lands exactly on the high boundary
	active := alerts.Active(batch)
	require.Len(t, active, 1)
	assert.Equal(t, alerts.SeverityHigh, active[0].Severity)
	assert.Equal(t, "Main St, New York, NY", active[0].LocationName)
	assert.Equal(t, 600, active[0].TimeAwaySeconds)
	assert.Equal(t, 900, active[0].EstimatedDurationSeconds)

	significant := alerts.Significant(batch)
	require.Len(t, significant, 1)
	assert.Equal(t, active[0].PrimaryIdentifier, significant[0].PrimaryIdentifier)
}

func TestScanTrafficGeocodeFallback(t *testing.T) {
	congested := geo.RingAround(nyc, 5)[0]

	server := newFakeDirectionsServer(congested, quietLeg)
	defer server.Close()

	scanner := NewScanner(
		NewDirectionsClientWithBaseURL("test-key", server.URL),
		&fakeGeocoder{err: errors.New("geocoder down")},
	)

	batch := scanner.ScanTraffic(context.Background(), nyc, 5)
	require.Len(t, batch, 8)

	// Naming failures never drop a record - the coordinate label stands in
	for _, alert := range batch {
		assert.Equal(t, alert.Coordinates.String(), alert.LocationName)
	}
}

func TestScanTrafficAllProbesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "routes": []}`)
	}))
	defer server.Close()

	scanner := NewScanner(
		NewDirectionsClientWithBaseURL("test-key", server.URL),
		&fakeGeocoder{name: "unused"},
	)

	batch := scanner.ScanTraffic(context.Background(), nyc, 5)
	assert.Empty(t, batch)
	assert.Empty(t, alerts.Significant(batch))
}

func TestScanClosuresDetectsBlockedStep(t *testing.T) {
	blocked := geo.RingAround(nyc, 5)[3]

	server := newFakeDirectionsServer(blocked, `{
		"duration": {"value": 600},
		"duration_in_traffic": {"value": 700},
		"steps": [
			{"duration": {"value": 300}, "duration_in_traffic": {"value": 310}},
			{"duration": {"value": 100}, "duration_in_traffic": {"value": 185}}
		]
	}`)
	defer server.Close()

	scanner := NewScanner(
		NewDirectionsClientWithBaseURL("test-key", server.URL),
		&fakeGeocoder{name: "Canal St"},
	)

	batch := scanner.ScanClosures(context.Background(), nyc, 5)
	require.Len(t, batch, 1, "only the blocked route produces a record")

	closure := batch[0]
	assert.Equal(t, alerts.AlertTypeRoadClosure, closure.Type)
	assert.Equal(t, alerts.SeverityCritical, closure.Severity)
	assert.Equal(t, alerts.TrafficImpactSevere, closure.TrafficImpact)
	assert.Equal(t, float64(5), closure.AffectedAreaMiles)

	significant := alerts.SignificantClosures(batch)
	require.Len(t, significant, 1)
	assert.Equal(t, closure.PrimaryIdentifier, significant[0].PrimaryIdentifier)
}

func TestScanClosuresConstructionZone(t *testing.T) {
	slowed := geo.RingAround(nyc, 5)[5]

	server := newFakeDirectionsServer(slowed, `{
		"duration": {"value": 600},
		"duration_in_traffic": {"value": 700},
		"steps": [{"duration": {"value": 100}, "duration_in_traffic": {"value": 160}}]
	}`)
	defer server.Close()

	scanner := NewScanner(
		NewDirectionsClientWithBaseURL("test-key", server.URL),
		&fakeGeocoder{name: "Broadway"},
	)

	batch := scanner.ScanClosures(context.Background(), nyc, 5)
	require.Len(t, batch, 1)

	assert.Equal(t, alerts.AlertTypeConstruction, batch[0].Type)
	assert.Equal(t, alerts.SeverityHigh, batch[0].Severity)
	assert.Equal(t, alerts.TrafficImpactSignificant, batch[0].TrafficImpact)
}
