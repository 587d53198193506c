package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/db"
	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/services/booking"
	"github.com/mentorbase/agenda-api/utils"
)

type createBookingRequest struct {
	OwnerID     uint                `json:"schedule_owner_id"`
	LinkToken   string              `json:"link_token"`
	Start       time.Time           `json:"start_datetime"`
	DurationMin int                 `json:"duration_minutes"`
	Title       string              `json:"title"`
	Contact     booking.ContactInfo `json:"contact"`
}

// CreateBooking is the single public create-booking operation. It drives the
// whole wizard server-side: resolve link, recheck availability, commit
// atomically.
func CreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if req.Start.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "start_datetime is required (RFC3339)",
		})
	}

	booked, err := engine.CreateBooking(c.Context(), booking.CreateRequest{
		OwnerID:     req.OwnerID,
		LinkToken:   req.LinkToken,
		Start:       req.Start,
		DurationMin: req.DurationMin,
		Title:       req.Title,
		Contact:     req.Contact,
	})
	if err != nil {
		return engineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking_id": booked.ID,
		"status":     booked.Status,
	})
}

// GetBooking returns a booking by ID
func GetBooking(c *fiber.Ctx) error {
	id := c.Params("id")
	var b models.Booking
	if err := db.DB.First(&b, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(b)
}

// ListBookings returns an owner's bookings inside an optional date range
func ListBookings(c *fiber.Ctx) error {
	q := db.DB.Order("start_datetime")

	if owner := c.Query("owner"); owner != "" {
		q = q.Where("owner_id = ?", owner)
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid from date, use YYYY-MM-DD",
				Error:   err.Error(),
			})
		}
		q = q.Where("start_datetime >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid to date, use YYYY-MM-DD",
				Error:   err.Error(),
			})
		}
		q = q.Where("start_datetime < ?", t.AddDate(0, 0, 1))
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}
	return c.JSON(bookings)
}

// UpdateBookingStatus applies a staff status transition. Bookings are never
// deleted; cancellation is also a transition.
func UpdateBookingStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var body struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var b models.Booking
	if err := db.DB.First(&b, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}

	if err := b.UpdateStatus(db.DB, body.Status); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Invalid status transition",
			Error:   err.Error(),
		})
	}
	return c.JSON(b)
}
