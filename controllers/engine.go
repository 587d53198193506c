package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorbase/agenda-api/services/booking"
	"github.com/mentorbase/agenda-api/utils"
)

var engine *booking.Coordinator

// SetupEngine wires the booking coordinator the controllers delegate to.
func SetupEngine(co *booking.Coordinator) {
	engine = co
}

// engineError maps an engine error code onto its HTTP response.
func engineError(c *fiber.Ctx, err error) error {
	code := booking.ErrCode(err)
	status := fiber.StatusInternalServerError
	switch code {
	case booking.CodeInvalidConfig, booking.CodeValidationError:
		status = fiber.StatusUnprocessableEntity
	case booking.CodeSlotTaken, booking.CodeNoSlotsAvailable:
		status = fiber.StatusConflict
	case booking.CodeLinkExpiredOrInactive:
		status = fiber.StatusNotFound
	case booking.CodeConfigUnavailable, booking.CodeAvailabilityUnknown:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(utils.ErrorResponse{
		Message: err.Error(),
		Code:    code,
	})
}
