package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/db"
	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/utils"
)

// ResolveBookingLink is the public front door: a token resolves to the owner
// whose agenda is being booked, plus overrides and contact prefill for the
// form.
func ResolveBookingLink(c *fiber.Ctx) error {
	token := c.Params("token")

	link, err := engine.ResolveLink(token)
	if err != nil {
		return engineError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":                     link.Token,
		"owner_id":                  link.OwnerID,
		"title_override":            link.TitleOverride,
		"duration_override_minutes": link.DurationOverrideMin,
		"contact": fiber.Map{
			"kind":   link.ContactKind,
			"ref_id": link.ContactRefID,
			"name":   link.ContactName,
			"email":  link.ContactEmail,
			"phone":  link.ContactPhone,
		},
	})
}

// CreateBookingLink creates a new shareable booking link
func CreateBookingLink(c *fiber.Ctx) error {
	link := new(models.BookingLink)
	if err := c.BodyParser(link); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if link.OwnerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "owner_id is required",
		})
	}
	link.Active = true
	link.UsageCount = 0
	if err := db.DB.Create(link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create booking link",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// ListBookingLinks returns the links of one owner
func ListBookingLinks(c *fiber.Ctx) error {
	q := db.DB.Order("created_at DESC")
	if owner := c.Query("owner"); owner != "" {
		q = q.Where("owner_id = ?", owner)
	}

	var links []models.BookingLink
	if err := q.Find(&links).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch booking links",
			Error:   err.Error(),
		})
	}
	return c.JSON(links)
}

// DeactivateBookingLink turns a link off without deleting its usage history
func DeactivateBookingLink(c *fiber.Ctx) error {
	id := c.Params("id")
	var link models.BookingLink
	if err := db.DB.First(&link, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking link not found",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Model(&link).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to deactivate booking link",
			Error:   err.Error(),
		})
	}
	return c.JSON(link)
}
