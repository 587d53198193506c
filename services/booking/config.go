package booking

import (
	"time"

	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/utils"
)

// ValidateConfig rejects a malformed ScheduleConfig at save time, so the
// generator never has to raise config errors mid-flow. Every rejection
// carries the InvalidConfig code.
//
// A work range whose span is not evenly divisible by its slot duration is
// rejected outright rather than silently truncating the trailing slot.
func ValidateConfig(cfg *models.ScheduleConfig) error {
	if len(cfg.AvailableWeekdays) == 0 {
		return NewFlowError(CodeInvalidConfig, "available_weekdays must not be empty")
	}
	for _, d := range cfg.AvailableWeekdays {
		if d < 0 || d > 6 {
			return NewFlowError(CodeInvalidConfig, "weekday %d out of range 0-6", d)
		}
	}

	if cfg.HorizonDays <= 0 {
		return NewFlowError(CodeInvalidConfig, "horizon_days must be positive")
	}
	if cfg.LeadTimeDays < 0 {
		return NewFlowError(CodeInvalidConfig, "lead_time_days must not be negative")
	}
	if cfg.LeadTimeDays > cfg.HorizonDays {
		return NewFlowError(CodeInvalidConfig,
			"lead_time_days %d exceeds horizon_days %d: no bookable window exists",
			cfg.LeadTimeDays, cfg.HorizonDays)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return NewFlowError(CodeInvalidConfig, "unknown timezone %q", cfg.Timezone)
	}

	for i, wr := range cfg.WorkRanges {
		start, err := utils.ClockMinutes(wr.Start)
		if err != nil {
			return NewFlowError(CodeInvalidConfig, "work_ranges[%d]: %v", i, err)
		}
		end, err := utils.ClockMinutes(wr.End)
		if err != nil {
			return NewFlowError(CodeInvalidConfig, "work_ranges[%d]: %v", i, err)
		}
		if end <= start {
			return NewFlowError(CodeInvalidConfig,
				"work_ranges[%d]: end %s must be after start %s", i, wr.End, wr.Start)
		}
		if wr.SlotDurationMin <= 0 {
			return NewFlowError(CodeInvalidConfig,
				"work_ranges[%d]: slot_duration_minutes must be positive", i)
		}
		if (end-start)%wr.SlotDurationMin != 0 {
			return NewFlowError(CodeInvalidConfig,
				"work_ranges[%d]: span of %d minutes is not divisible by slot duration %d",
				i, end-start, wr.SlotDurationMin)
		}
	}

	if cfg.HasBreak() {
		bs, err := utils.ClockMinutes(*cfg.BreakStart)
		if err != nil {
			return NewFlowError(CodeInvalidConfig, "break_start: %v", err)
		}
		be, err := utils.ClockMinutes(*cfg.BreakEnd)
		if err != nil {
			return NewFlowError(CodeInvalidConfig, "break_end: %v", err)
		}
		if be <= bs {
			return NewFlowError(CodeInvalidConfig,
				"break window end %s must be after start %s", *cfg.BreakEnd, *cfg.BreakStart)
		}
	}

	return nil
}
