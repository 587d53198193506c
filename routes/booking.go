package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/controllers"
	"github.com/mentorbase/agenda-api/middleware"
)

// SetupBookingRoutes configures all booking related routes
func SetupBookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings")
	bookings.Post("/", controllers.CreateBooking)
	bookings.Get("/", middleware.Protected(), middleware.RequireStaff(), controllers.ListBookings)
	bookings.Get("/:id", middleware.Protected(), middleware.RequireStaff(), controllers.GetBooking)
	bookings.Patch("/:id/status", middleware.Protected(), middleware.RequireStaff(), controllers.UpdateBookingStatus)
}
