package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/roadwatch/roadwatch/pkg/notify"
)

func NotificationsRouter(router fiber.Router) {
	router.Post("/test", sendTestNotification)
}

type testNotificationRequest struct {
	Token string `json:"token"`
}

// sendTestNotification pushes a fabricated accident alert so a device can
// verify its token end to end.
func sendTestNotification(c *fiber.Ctx) error {
	var request testNotificationRequest
	if err := c.BodyParser(&request); err != nil || request.Token == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A push token must be provided",
		})
	}

	testAlert := alerts.Alert{
		PrimaryIdentifier: alerts.NewAlertID("test", 0),
		Type:              alerts.AlertTypeAccident,
		Severity:          alerts.SeverityHigh,
		TrafficImpact:     alerts.TrafficImpactSignificant,
		Title:             "Test Notification",
		Description:       "This is a test alert",
		LocationName:      "Test Location",
		Coordinates:       geo.Coordinates{Latitude: 40.7128, Longitude: -74.0060},
		TimeAwaySeconds:   300,
		CreatedAt:         time.Now(),
	}

	if err := notify.NewPushClient().SendAlert(c.Context(), request.Token, testAlert); err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "sent",
	})
}
