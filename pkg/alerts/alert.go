package alerts

import (
	"fmt"
	"time"

	"github.com/roadwatch/roadwatch/pkg/geo"
	"golang.org/x/exp/slices"
)

type AlertType string

const (
	AlertTypeTraffic      AlertType = "traffic"
	AlertTypeRoadClosure  AlertType = "road-closure"
	AlertTypeConstruction AlertType = "construction"
	AlertTypeAccident     AlertType = "accident"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type TrafficImpact string

const (
	TrafficImpactMinimal     TrafficImpact = "minimal"
	TrafficImpactModerate    TrafficImpact = "moderate"
	TrafficImpactSignificant TrafficImpact = "significant"
	TrafficImpactSevere      TrafficImpact = "severe"
)

// Alert is one observed traffic condition on a route out of a watched
// center point. A fresh batch is generated on every monitor pass - alerts
// are never updated in place.
type Alert struct {
	PrimaryIdentifier string `groups:"basic" bson:"primaryidentifier"`

	Type     AlertType `groups:"basic" bson:"type"`
	Severity Severity  `groups:"basic" bson:"severity"`

	TrafficImpact TrafficImpact `groups:"detailed" bson:"trafficimpact,omitempty"`

	Title       string `groups:"basic" bson:"title"`
	Description string `groups:"basic" bson:"description"`

	LocationName string          `groups:"basic" bson:"location_name"`
	Coordinates  geo.Coordinates `groups:"basic" bson:"coordinates"`

	TimeAwaySeconds          int `groups:"detailed" bson:"time_away_seconds"`
	EstimatedDurationSeconds int `groups:"detailed" bson:"estimated_duration_seconds"`

	AffectedAreaMiles float64 `groups:"detailed" bson:"affected_area_miles,omitempty"`

	CreatedAt time.Time `groups:"basic" bson:"created_at"`
}

// NewAlertID generates a process-local identifier for a freshly created
// alert. Uniqueness across restarts is not required.
func NewAlertID(prefix string, index int) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixMilli(), index)
}

// TimeAway renders the travel time to the alert location the way the
// notification payloads expect it.
func (a *Alert) TimeAway() string {
	return fmt.Sprintf("%d min", int(float64(a.TimeAwaySeconds)/60+0.5))
}

func (a *Alert) EstimatedDuration() string {
	return fmt.Sprintf("%d min", int(float64(a.EstimatedDurationSeconds)/60+0.5))
}

// Active filters out the quiet routes - anything above low severity counts.
func Active(batch []Alert) []Alert {
	var filtered []Alert
	for _, alert := range batch {
		if alert.Severity != SeverityLow {
			filtered = append(filtered, alert)
		}
	}

	return filtered
}

// Significant returns the traffic alerts worth notifying about. The general
// congestion classifier never produces critical so only high is checked here.
func Significant(batch []Alert) []Alert {
	var filtered []Alert
	for _, alert := range batch {
		if alert.Severity == SeverityHigh {
			filtered = append(filtered, alert)
		}
	}

	return filtered
}

// SignificantClosures returns the closure alerts worth notifying about.
func SignificantClosures(batch []Alert) []Alert {
	notifiable := []Severity{SeverityHigh, SeverityCritical}

	var filtered []Alert
	for _, alert := range batch {
		if slices.Contains(notifiable, alert.Severity) {
			filtered = append(filtered, alert)
		}
	}

	return filtered
}
