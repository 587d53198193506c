package booking

import (
	"errors"
	"fmt"
)

// Error codes surfaced by the availability and booking engine. Controllers
// map them onto HTTP statuses; SlotTaken is the only code the flow retries
// on its own.
const (
	CodeInvalidConfig         = "InvalidConfig"
	CodeNoSlotsAvailable      = "NoSlotsAvailable"
	CodeSlotTaken             = "SlotTaken"
	CodeLinkExpiredOrInactive = "LinkExpiredOrInactive"
	CodeValidationError       = "ValidationError"
	CodeConfigUnavailable     = "ConfigUnavailable"
	CodeAvailabilityUnknown   = "AvailabilityUnknown"
)

type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewFlowError(code, format string, args ...any) error {
	return &FlowError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrCode extracts the engine error code, or "" for foreign errors.
func ErrCode(err error) string {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// IsCode reports whether err carries the given engine error code.
func IsCode(err error, code string) bool {
	return ErrCode(err) == code
}
