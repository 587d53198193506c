package booking

import (
	"time"

	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/utils"
)

// MarkBookedSlots flags every candidate that collides with a persisted
// booking, using the same half-open overlap test as the generator. Pure:
// the input slice is modified in place and returned.
//
// O(n·m) over candidates × bookings; fine for a single owner-day. Switch to
// a sorted merge if per-day booking volume ever grows beyond a screenful.
func MarkBookedSlots(candidates []SlotCandidate, bookings []models.Booking) []SlotCandidate {
	for i := range candidates {
		for _, b := range bookings {
			if !b.Blocks() {
				continue
			}
			if candidates[i].Overlaps(b.StartDatetime, b.EndDatetime) {
				candidates[i].Available = false
				break
			}
		}
	}
	return candidates
}

// AvailableSlots generates the candidates for a date and filters them
// against the owner's existing bookings. A date outside the weekday set
// short-circuits before touching the bookings store. A failed bookings read
// aborts with AvailabilityUnknown: availability is safety-critical, so we
// never assume a free calendar on a broken read.
func (co *Coordinator) AvailableSlots(ownerID uint, cfg *models.ScheduleConfig, date time.Time, overrideDurationMin int, now time.Time) ([]SlotCandidate, error) {
	candidates, err := GenerateSlots(cfg, date, overrideDurationMin, now)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, NewFlowError(CodeInvalidConfig, "unknown timezone %q", cfg.Timezone)
	}
	dayStart := utils.StartOfDay(date, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := co.Repo.ActiveBookingsForWindow(ownerID, dayStart, dayEnd)
	if err != nil {
		return nil, NewFlowError(CodeAvailabilityUnknown,
			"could not load existing bookings: %v", err)
	}

	return MarkBookedSlots(candidates, bookings), nil
}
