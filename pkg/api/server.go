package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roadwatch/roadwatch/pkg/api/routes"
)

func SetupServer(listen string) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.AlertsRouter(group.Group("/alerts"))
	routes.NotificationsRouter(group.Group("/notifications"))

	return webApp.Listen(listen)
}
