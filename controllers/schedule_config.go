package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mentorbase/agenda-api/db"
	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/services/booking"
	"github.com/mentorbase/agenda-api/utils"
)

// GetScheduleConfig returns the recurring availability of one owner
func GetScheduleConfig(c *fiber.Ctx) error {
	ownerID := c.Params("ownerID")
	var cfg models.ScheduleConfig
	if err := db.DB.Where("owner_id = ?", ownerID).First(&cfg).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Schedule config not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(cfg)
}

// UpsertScheduleConfig creates or replaces the owner's availability.
// A malformed config is rejected here, at the boundary, so the slot
// generator can assume a valid one.
func UpsertScheduleConfig(c *fiber.Ctx) error {
	ownerID, err := strconv.ParseUint(c.Params("ownerID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid owner ID",
			Error:   err.Error(),
		})
	}

	var incoming models.ScheduleConfig
	if err := c.BodyParser(&incoming); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	incoming.OwnerID = uint(ownerID)

	if err := booking.ValidateConfig(&incoming); err != nil {
		return engineError(c, err)
	}

	var existing models.ScheduleConfig
	err = db.DB.Where("owner_id = ?", ownerID).First(&existing).Error
	switch {
	case err == nil:
		incoming.ID = existing.ID
		incoming.CreatedAt = existing.CreatedAt
		if err := db.DB.Save(&incoming).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update schedule config",
				Error:   err.Error(),
			})
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.DB.Create(&incoming).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create schedule config",
				Error:   err.Error(),
			})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load schedule config",
			Error:   err.Error(),
		})
	}

	return c.JSON(incoming)
}
