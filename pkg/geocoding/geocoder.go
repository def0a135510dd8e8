package geocoding

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

// Geocoder resolves coordinates to a human readable place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, point geo.Coordinates) (string, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func NewClientWithBaseURL(apiKey string, baseURL string) *Client {
	client := NewClient(apiKey)
	client.baseURL = baseURL

	return client
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

// ReverseGeocode returns the formatted address of the first result for the
// given point. No results is not an error - it returns an empty string and
// the caller falls back to a coordinate label.
func (c *Client) ReverseGeocode(ctx context.Context, point geo.Coordinates) (string, error) {
	requestURL := fmt.Sprintf("%s/maps/api/geocode/json?latlng=%f,%f&key=%s",
		c.baseURL, point.Latitude, point.Longitude, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var geocodeData geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geocodeData); err != nil {
		return "", err
	}

	if len(geocodeData.Results) == 0 {
		return "", nil
	}

	return geocodeData.Results[0].FormattedAddress, nil
}
