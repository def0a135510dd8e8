package traffic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/roadwatch/roadwatch/pkg/geocoding"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// Scanner probes a ring of routes around a center point and turns the
// congestion readings into alert records.
type Scanner struct {
	Directions *DirectionsClient
	Geocoder   geocoding.Geocoder
}

func NewScanner(directions *DirectionsClient, geocoder geocoding.Geocoder) *Scanner {
	return &Scanner{
		Directions: directions,
		Geocoder:   geocoder,
	}
}

// ScanTraffic probes every ring point around the center and produces one
// traffic alert per destination that answered. A destination whose probe
// fails is logged and dropped - partial batches are normal.
func (s *Scanner) ScanTraffic(ctx context.Context, center geo.Coordinates, radiusMiles float64) []alerts.Alert {
	destinations := geo.RingAround(center, radiusMiles)

	p := pool.NewWithResults[*alerts.Alert]()

	for index, destination := range destinations {
		index := index
		destination := destination

		p.Go(func() *alerts.Alert {
			sample, err := s.Directions.Route(ctx, center, destination)
			if err != nil {
				log.Debug().Err(err).Str("destination", destination.String()).Msg("Traffic probe failed")
				return nil
			}

			severity := ClassifyCongestion(sample.DelayRatioPercent())
			locationName := s.resolveLocationName(ctx, destination)

			return &alerts.Alert{
				PrimaryIdentifier: alerts.NewAlertID("traffic", index),

				Type:     alerts.AlertTypeTraffic,
				Severity: severity,

				Title:       fmt.Sprintf("Traffic Alert: %s Congestion", strings.ToUpper(string(severity))),
				Description: fmt.Sprintf("Traffic conditions on route to %s", locationName),

				LocationName: locationName,
				Coordinates:  destination,

				TimeAwaySeconds:          int(sample.BaselineDurationSeconds),
				EstimatedDurationSeconds: int(sample.TrafficDurationSeconds),

				CreatedAt: time.Now(),
			}
		})
	}

	return collectAlerts(p.Wait())
}

// ScanClosures runs the stricter per-step analysis over the same ring and
// only emits records for routes showing closure or construction signs.
func (s *Scanner) ScanClosures(ctx context.Context, center geo.Coordinates, radiusMiles float64) []alerts.Alert {
	destinations := geo.RingAround(center, radiusMiles)

	p := pool.NewWithResults[*alerts.Alert]()

	for index, destination := range destinations {
		index := index
		destination := destination

		p.Go(func() *alerts.Alert {
			sample, err := s.Directions.Route(ctx, center, destination)
			if err != nil {
				log.Debug().Err(err).Str("destination", destination.String()).Msg("Closure probe failed")
				return nil
			}

			assessment := AssessClosure(sample)
			if !assessment.HasClosure && !assessment.SevereCongestion {
				return nil
			}

			locationName := s.resolveLocationName(ctx, destination)

			alertType := alerts.AlertTypeConstruction
			title := "🚧 Construction Zone"
			if assessment.HasClosure {
				alertType = alerts.AlertTypeRoadClosure
				title = "🚧 Road Closure Detected"
			}

			return &alerts.Alert{
				PrimaryIdentifier: alerts.NewAlertID("closure", index),

				Type:          alertType,
				Severity:      assessment.Severity,
				TrafficImpact: assessment.Impact,

				Title:       title,
				Description: fmt.Sprintf("Road closure detected on route to %s", locationName),

				LocationName: locationName,
				Coordinates:  destination,

				TimeAwaySeconds:          int(sample.BaselineDurationSeconds),
				EstimatedDurationSeconds: int(sample.TrafficDurationSeconds),

				AffectedAreaMiles: radiusMiles,

				CreatedAt: time.Now(),
			}
		})
	}

	return collectAlerts(p.Wait())
}

// resolveLocationName never fails an alert over a naming problem - a
// formatted coordinate string stands in when geocoding comes up empty.
func (s *Scanner) resolveLocationName(ctx context.Context, point geo.Coordinates) string {
	if s.Geocoder != nil {
		name, err := s.Geocoder.ReverseGeocode(ctx, point)
		if err != nil {
			log.Debug().Err(err).Str("point", point.String()).Msg("Reverse geocode failed")
		} else if name != "" {
			return name
		}
	}

	return point.String()
}

func collectAlerts(results []*alerts.Alert) []alerts.Alert {
	var batch []alerts.Alert
	for _, alert := range results {
		if alert != nil {
			batch = append(batch, *alert)
		}
	}

	return batch
}
