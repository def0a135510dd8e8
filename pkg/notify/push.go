package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/rs/zerolog/log"
)

const defaultPushEndpoint = "https://exp.host/--/api/v2/push/send"

// DeliveryError is a push that never made it - the relay was unreachable or
// reported a non-ok status. Retrying is the caller's decision.
type DeliveryError struct {
	Status string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("push delivery failed: %s", e.Err)
	}

	return fmt.Sprintf("push relay reported status %q", e.Status)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// PushClient delivers alert notifications through the Expo push relay.
type PushClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewPushClient() *PushClient {
	return &PushClient{
		endpoint: defaultPushEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func NewPushClientWithEndpoint(endpoint string) *PushClient {
	client := NewPushClient()
	client.endpoint = endpoint

	return client
}

type pushMessage struct {
	To    string `json:"to"`
	Sound string `json:"sound"`
	Title string `json:"title"`
	Body  string `json:"body"`

	Data pushMessageData `json:"data"`
}

type pushMessageData struct {
	Type         alerts.AlertType `json:"type"`
	LocationName string           `json:"locationName"`
	TimeAway     string           `json:"timeAway"`
	Coordinates  geo.Coordinates  `json:"coordinates"`
	Severity     alerts.Severity  `json:"severity"`
	Description  string           `json:"description"`
}

type pushReceipt struct {
	Data struct {
		Status string `json:"status"`
	} `json:"data"`
}

// SendAlert pushes one alert to a device token. Success is the relay
// acknowledging with an ok status - anything else is a DeliveryError.
func (c *PushClient) SendAlert(ctx context.Context, pushToken string, alert alerts.Alert) error {
	title, body := notificationText(alert)

	message := pushMessage{
		To:    pushToken,
		Sound: "default",
		Title: title,
		Body:  body,

		Data: pushMessageData{
			Type:         alert.Type,
			LocationName: alert.LocationName,
			TimeAway:     alert.TimeAway(),
			Coordinates:  alert.Coordinates,
			Severity:     alert.Severity,
			Description:  alert.Description,
		},
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		return &DeliveryError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(messageJSON))
	if err != nil {
		return &DeliveryError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-encoding", "gzip, deflate")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	var receipt pushReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return &DeliveryError{Err: err}
	}

	if receipt.Data.Status != "ok" {
		return &DeliveryError{Status: receipt.Data.Status}
	}

	log.Info().
		Str("type", string(alert.Type)).
		Str("location", alert.LocationName).
		Msg("Sent push notification")

	return nil
}

func notificationText(alert alerts.Alert) (string, string) {
	switch alert.Type {
	case alerts.AlertTypeRoadClosure, alerts.AlertTypeConstruction:
		return "🚧 Road Closure", fmt.Sprintf("Road Closed at %s", alert.LocationName)
	case alerts.AlertTypeAccident:
		return "⚠️ Accident Alert", fmt.Sprintf("Accident Near %s", alert.LocationName)
	default:
		return "🚦 Traffic Alert", fmt.Sprintf("Heavy Traffic on %s", alert.LocationName)
	}
}
