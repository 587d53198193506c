package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/controllers"
)

// SetupAvailabilityRoutes configures the public availability lookups
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/availability")
	availability.Get("/:ownerID", controllers.GetAvailableSlots)
	availability.Get("/:ownerID/dates", controllers.GetBookableDates)
}
