package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/roadwatch/roadwatch/pkg/geo"
)

const defaultBaseURL = "https://maps.googleapis.com"

// UpstreamError is a directions request that failed or came back with a
// non-OK status. One of these only ever costs a single ring point its data -
// the rest of the batch carries on.
type UpstreamError struct {
	Status string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("directions request failed: %s", e.Err)
	}

	return fmt.Sprintf("directions API returned status %s", e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// DirectionsClient calls the Google Directions API with best-guess traffic
// modelling for a depart-now journey.
type DirectionsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewDirectionsClient(apiKey string) *DirectionsClient {
	return &DirectionsClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func NewDirectionsClientWithBaseURL(apiKey string, baseURL string) *DirectionsClient {
	client := NewDirectionsClient(apiKey)
	client.baseURL = baseURL

	return client
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []directionsLeg `json:"legs"`
	} `json:"routes"`
}

type directionsLeg struct {
	Duration          *directionsValue `json:"duration"`
	DurationInTraffic *directionsValue `json:"duration_in_traffic"`

	Steps []directionsStep `json:"steps"`
}

type directionsStep struct {
	Duration          *directionsValue `json:"duration"`
	DurationInTraffic *directionsValue `json:"duration_in_traffic"`
}

type directionsValue struct {
	Value float64 `json:"value"`
}

// Route probes one origin to destination pair and returns the traffic
// timings of the first route's first leg.
func (c *DirectionsClient) Route(ctx context.Context, origin geo.Coordinates, destination geo.Coordinates) (*CongestionSample, error) {
	requestURL := fmt.Sprintf(
		"%s/maps/api/directions/json?origin=%f,%f&destination=%f,%f&traffic_model=best_guess&departure_time=now&key=%s",
		c.baseURL,
		origin.Latitude, origin.Longitude,
		destination.Latitude, destination.Longitude,
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	var directionsData directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&directionsData); err != nil {
		return nil, &UpstreamError{Err: err}
	}

	if directionsData.Status != "OK" || len(directionsData.Routes) == 0 || len(directionsData.Routes[0].Legs) == 0 {
		return nil, &UpstreamError{Status: directionsData.Status}
	}

	return newCongestionSample(directionsData.Routes[0].Legs[0]), nil
}

func newCongestionSample(leg directionsLeg) *CongestionSample {
	sample := &CongestionSample{}

	if leg.Duration != nil {
		sample.BaselineDurationSeconds = leg.Duration.Value
	}

	// Traffic-adjusted timing is optional upstream. Fall back to the
	// baseline so the delay ratio reads as zero.
	sample.TrafficDurationSeconds = sample.BaselineDurationSeconds
	if leg.DurationInTraffic != nil {
		sample.TrafficDurationSeconds = leg.DurationInTraffic.Value
	}

	for _, step := range leg.Steps {
		var stepBaseline, stepTraffic float64

		if step.Duration != nil {
			stepBaseline = step.Duration.Value
		}

		stepTraffic = stepBaseline
		if step.DurationInTraffic != nil {
			stepTraffic = step.DurationInTraffic.Value
		}

		sample.StepDelayRatios = append(sample.StepDelayRatios, delayRatioPercent(stepBaseline, stepTraffic))
	}

	return sample
}
