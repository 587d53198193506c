package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkRange is a contiguous daily interval eligible for slot generation.
// Times are wall-clock "HH:MM" strings in 24h format, interpreted in the
// owner's configured timezone.
type WorkRange struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	SlotDurationMin int    `json:"slot_duration_minutes"`
}

// ScheduleConfig holds the recurring weekly availability of one schedule
// owner. There is exactly one row per owner; it is validated at save time,
// the booking engine treats it as read-only.
type ScheduleConfig struct {
	gorm.Model
	OwnerID           uint                           `json:"owner_id" gorm:"not null;uniqueIndex"`
	AvailableWeekdays datatypes.JSONSlice[int]       `json:"available_weekdays"` // 0=Sunday .. 6=Saturday
	WorkRanges        datatypes.JSONSlice[WorkRange] `json:"work_ranges"`
	BreakStart        *string                        `json:"break_start"` // optional, "HH:MM"
	BreakEnd          *string                        `json:"break_end"`
	LeadTimeDays      int                            `json:"lead_time_days" gorm:"default:1"`
	HorizonDays       int                            `json:"horizon_days" gorm:"default:30"`
	Timezone          string                         `json:"timezone" gorm:"default:'America/Sao_Paulo'"`
}

// HasBreak reports whether a break window is configured.
func (sc *ScheduleConfig) HasBreak() bool {
	return sc.BreakStart != nil && sc.BreakEnd != nil && *sc.BreakStart != "" && *sc.BreakEnd != ""
}

// WeekdayAvailable reports whether the given weekday (0=Sunday) is bookable.
func (sc *ScheduleConfig) WeekdayAvailable(weekday int) bool {
	for _, d := range sc.AvailableWeekdays {
		if d == weekday {
			return true
		}
	}
	return false
}
