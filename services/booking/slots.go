package booking

import (
	"sort"
	"time"

	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/utils"
)

// SlotCandidate is an ephemeral bookable interval, computed on demand and
// never persisted. Start/End are zoned instants in the owner's timezone.
type SlotCandidate struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// Overlaps applies the half-open interval test against [start, end).
func (s SlotCandidate) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// GenerateSlots produces the candidate slots of one calendar date from a
// validated ScheduleConfig. Pure and safe for concurrent use: identical
// inputs always yield the identical ascending sequence.
//
// overrideDurationMin replaces every range's slot duration when positive
// (booking links can override the meeting length). now anchors the
// lead-time/horizon window; both bounds work at whole-day granularity from
// local midnight, matching how owners think about "days of notice".
func GenerateSlots(cfg *models.ScheduleConfig, date time.Time, overrideDurationMin int, now time.Time) ([]SlotCandidate, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, NewFlowError(CodeInvalidConfig, "unknown timezone %q", cfg.Timezone)
	}

	day := utils.StartOfDay(date, loc)
	if !cfg.WeekdayAvailable(int(day.Weekday())) {
		return nil, nil
	}

	windowStart := utils.StartOfDay(now, loc).AddDate(0, 0, cfg.LeadTimeDays)
	windowEnd := utils.StartOfDay(now, loc).AddDate(0, 0, cfg.HorizonDays+1)

	breakStart, breakEnd := -1, -1
	if cfg.HasBreak() {
		if breakStart, err = utils.ClockMinutes(*cfg.BreakStart); err != nil {
			return nil, NewFlowError(CodeInvalidConfig, "break_start: %v", err)
		}
		if breakEnd, err = utils.ClockMinutes(*cfg.BreakEnd); err != nil {
			return nil, NewFlowError(CodeInvalidConfig, "break_end: %v", err)
		}
	}

	var slots []SlotCandidate
	for _, wr := range cfg.WorkRanges {
		rangeStart, err := utils.ClockMinutes(wr.Start)
		if err != nil {
			return nil, NewFlowError(CodeInvalidConfig, "work range start: %v", err)
		}
		rangeEnd, err := utils.ClockMinutes(wr.End)
		if err != nil {
			return nil, NewFlowError(CodeInvalidConfig, "work range end: %v", err)
		}

		duration := wr.SlotDurationMin
		if overrideDurationMin > 0 {
			duration = overrideDurationMin
		}
		if duration <= 0 {
			return nil, NewFlowError(CodeInvalidConfig, "slot duration must be positive")
		}

		for cursor := rangeStart; cursor+duration <= rangeEnd; cursor += duration {
			slotEnd := cursor + duration

			// Half-open overlap against the break window.
			if breakStart >= 0 && cursor < breakEnd && breakStart < slotEnd {
				continue
			}

			start := utils.AtMinutes(day, cursor, loc)
			if start.Before(windowStart) || !start.Before(windowEnd) {
				continue
			}

			slots = append(slots, SlotCandidate{
				Start:     start,
				End:       utils.AtMinutes(day, slotEnd, loc),
				Available: true,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots, nil
}

// BookableDates lists the calendar dates inside the lead-time/horizon window
// whose weekday is available. Dates are returned at local midnight in the
// owner's timezone, ascending.
func BookableDates(cfg *models.ScheduleConfig, now time.Time) ([]time.Time, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, NewFlowError(CodeInvalidConfig, "unknown timezone %q", cfg.Timezone)
	}

	var dates []time.Time
	base := utils.StartOfDay(now, loc)
	for i := cfg.LeadTimeDays; i <= cfg.HorizonDays; i++ {
		d := base.AddDate(0, 0, i)
		if cfg.WeekdayAvailable(int(d.Weekday())) {
			dates = append(dates, d)
		}
	}
	return dates, nil
}
