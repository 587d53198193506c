package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/controllers"
	"github.com/mentorbase/agenda-api/middleware"
)

// SetupScheduleConfigRoutes configures the availability configuration routes
func SetupScheduleConfigRoutes(app *fiber.App) {
	cfg := app.Group("/schedule-config")
	cfg.Get("/:ownerID", controllers.GetScheduleConfig)
	cfg.Put("/:ownerID", middleware.Protected(), middleware.RequireStaff(), controllers.UpsertScheduleConfig)
}
