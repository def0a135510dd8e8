package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geo"
)

func AlertsRouter(router fiber.Router) {
	router.Get("/", listAlerts)
	router.Get("/nearby", nearbyAlerts)
}

func listAlerts(c *fiber.Ctx) error {
	userID := c.Query("user")

	records, err := alerts.NewStore().List(c.Context(), userID)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not load alert history",
		})
	}

	groups := []string{"basic"}
	if userID != "" {
		groups = append(groups, "detailed")
	}

	recordsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, records)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce alert records",
		})
	}

	return c.JSON(recordsReduced)
}

func nearbyAlerts(c *fiber.Ctx) error {
	latitude, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	longitude, lonErr := strconv.ParseFloat(c.Query("lon"), 64)

	if latErr != nil || lonErr != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters lat & lon must be provided",
		})
	}

	radiusMiles, err := strconv.ParseFloat(c.Query("radius", "5"), 64)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter radius must be a number",
		})
	}

	point := geo.Coordinates{Latitude: latitude, Longitude: longitude}

	records, err := alerts.NewStore().Nearby(c.Context(), point, radiusMiles)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not load nearby alerts",
		})
	}

	recordsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, records)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce alert records",
		})
	}

	return c.JSON(recordsReduced)
}
