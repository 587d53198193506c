package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/controllers"
	"github.com/mentorbase/agenda-api/middleware"
)

// SetupBookingLinkRoutes configures the shareable booking link routes.
// Resolution is public (the token is the credential); management is staff.
func SetupBookingLinkRoutes(app *fiber.App) {
	app.Get("/agenda/:token", controllers.ResolveBookingLink)

	links := app.Group("/booking-links", middleware.Protected(), middleware.RequireStaff())
	links.Post("/", controllers.CreateBookingLink)
	links.Get("/", controllers.ListBookingLinks)
	links.Patch("/:id/deactivate", controllers.DeactivateBookingLink)
}
