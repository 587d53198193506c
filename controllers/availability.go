package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/services/booking"
	"github.com/mentorbase/agenda-api/utils"
)

// GetAvailableSlots returns the generated and filtered slots for an owner on
// a given date. Dates are interpreted in the owner's configured timezone.
func GetAvailableSlots(c *fiber.Ctx) error {
	ownerID, err := strconv.ParseUint(c.Params("ownerID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid owner ID",
			Error:   err.Error(),
		})
	}

	cfg, err := engine.Repo.ScheduleConfigByOwner(uint(ownerID))
	if err != nil {
		return engineError(c, err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Invalid schedule timezone",
			Error:   err.Error(),
		})
	}

	dateStr := c.Query("date") // Expected format: "YYYY-MM-DD"
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date format, use YYYY-MM-DD",
			Error:   err.Error(),
		})
	}

	duration := c.QueryInt("duration", 0)

	slots, err := engine.AvailableSlots(uint(ownerID), cfg, date, duration, time.Now())
	if err != nil {
		return engineError(c, err)
	}

	return c.JSON(fiber.Map{
		"owner_id": ownerID,
		"date":     dateStr,
		"slots":    slots,
	})
}

// GetBookableDates lists the dates inside the owner's lead-time/horizon
// window that can hold bookings at all.
func GetBookableDates(c *fiber.Ctx) error {
	ownerID, err := strconv.ParseUint(c.Params("ownerID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid owner ID",
			Error:   err.Error(),
		})
	}

	cfg, err := engine.Repo.ScheduleConfigByOwner(uint(ownerID))
	if err != nil {
		return engineError(c, err)
	}

	dates, err := booking.BookableDates(cfg, time.Now())
	if err != nil {
		return engineError(c, err)
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return c.JSON(fiber.Map{
		"owner_id": ownerID,
		"dates":    out,
	})
}
