package booking

import (
	"strings"
	"time"

	"github.com/mentorbase/agenda-api/models"
)

// FlowState is one step of the booking wizard. The whole wizard is a plain
// value held by the caller and threaded through Coordinator calls; there is
// no process-wide flow registry.
type FlowState string

const (
	StateSelectingDate     FlowState = "selecting_date"
	StateSelectingTime     FlowState = "selecting_time"
	StateCollectingContact FlowState = "collecting_contact"
	StateConfirming        FlowState = "confirming"
	StateBooked            FlowState = "booked"
	StateFailed            FlowState = "failed"
)

// ContactInfo identifies who the meeting is with. Kind/RefID tie the booking
// to a CRM lead or mentee when known; anonymous bookings carry only the
// typed-in fields.
type ContactInfo struct {
	Kind  models.ContactKind `json:"kind"`
	RefID *uint              `json:"ref_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone"`
}

// Validate requires a full name and at least one contact channel.
func (ci ContactInfo) Validate() error {
	if strings.TrimSpace(ci.Name) == "" {
		return NewFlowError(CodeValidationError, "contact name is required")
	}
	if strings.TrimSpace(ci.Email) == "" && strings.TrimSpace(ci.Phone) == "" {
		return NewFlowError(CodeValidationError, "at least one contact channel (email or phone) is required")
	}
	return nil
}

// Flow carries the wizard through its states. Until Confirm succeeds nothing
// it references is persisted; abandoning a Flow at any earlier state leaves
// no trace.
type Flow struct {
	State   FlowState
	OwnerID uint

	// Link is set when the flow was opened through a booking link.
	Link *models.BookingLink

	Config *models.ScheduleConfig
	Date   time.Time

	// Slots is the last availability snapshot shown to the caller. It is
	// never a reservation; Confirm re-validates at commit time.
	Slots    []SlotCandidate
	Selected *SlotCandidate

	Contact     ContactInfo
	Title       string
	DurationMin int

	// Pending is the booking request built in CollectingContact, committed
	// in Confirming.
	Pending   *models.Booking
	BookingID string
}

func (f *Flow) in(states ...FlowState) bool {
	for _, s := range states {
		if f.State == s {
			return true
		}
	}
	return false
}
