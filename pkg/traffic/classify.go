package traffic

import (
	"github.com/roadwatch/roadwatch/pkg/alerts"
)

// CongestionSample is the traffic timing of one probed route.
type CongestionSample struct {
	BaselineDurationSeconds float64
	TrafficDurationSeconds  float64

	// One delay ratio per route step, in route order.
	StepDelayRatios []float64
}

// DelayRatioPercent is the percentage increase of the traffic-adjusted
// travel time over the free-flow baseline, floored at zero.
func (s *CongestionSample) DelayRatioPercent() float64 {
	return delayRatioPercent(s.BaselineDurationSeconds, s.TrafficDurationSeconds)
}

func delayRatioPercent(baselineSeconds float64, trafficSeconds float64) float64 {
	if baselineSeconds <= 0 {
		return 0
	}

	ratio := (trafficSeconds - baselineSeconds) / baselineSeconds * 100
	if ratio < 0 {
		return 0
	}

	return ratio
}

// ClassifyCongestion buckets a route's overall delay ratio. This path never
// produces critical - only the closure analysis below reaches it.
func ClassifyCongestion(delayRatio float64) alerts.Severity {
	switch {
	case delayRatio < 20:
		return alerts.SeverityLow
	case delayRatio < 50:
		return alerts.SeverityMedium
	default:
		return alerts.SeverityHigh
	}
}

// ClosureAssessment is the stricter per-step reading of a route used to
// spot closures and construction.
type ClosureAssessment struct {
	HasClosure       bool
	SevereCongestion bool

	Severity alerts.Severity
	Impact   alerts.TrafficImpact
}

// AssessClosure inspects each step's own delay ratio. A step delayed beyond
// 80% reads as a closure regardless of anything else; a step beyond 50%
// reads as severe congestion; otherwise the aggregate ratio decides.
// Precedence is strictly top to bottom.
func AssessClosure(sample *CongestionSample) ClosureAssessment {
	assessment := ClosureAssessment{}

	for _, stepDelayRatio := range sample.StepDelayRatios {
		if stepDelayRatio > 80 {
			assessment.HasClosure = true
		} else if stepDelayRatio > 50 {
			assessment.SevereCongestion = true
		}
	}

	switch {
	case assessment.HasClosure:
		assessment.Severity = alerts.SeverityCritical
		assessment.Impact = alerts.TrafficImpactSevere
	case assessment.SevereCongestion:
		assessment.Severity = alerts.SeverityHigh
		assessment.Impact = alerts.TrafficImpactSignificant
	case sample.DelayRatioPercent() > 30:
		assessment.Severity = alerts.SeverityMedium
		assessment.Impact = alerts.TrafficImpactModerate
	default:
		assessment.Severity = alerts.SeverityLow
		assessment.Impact = alerts.TrafficImpactMinimal
	}

	return assessment
}
