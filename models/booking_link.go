package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingLink is a shareable front door to one owner's agenda. The token is
// embedded in a public URL; optional overrides replace the default title and
// slot duration for bookings made through the link. Contact fields pre-fill
// the booking form when the link targets a known lead or mentee.
type BookingLink struct {
	gorm.Model
	Token               string      `json:"token" gorm:"size:36;not null;uniqueIndex"`
	OwnerID             uint        `json:"owner_id" gorm:"not null;index"`
	TitleOverride       *string     `json:"title_override"`
	DurationOverrideMin *int        `json:"duration_override_minutes"`
	ContactKind         ContactKind `json:"contact_kind" gorm:"size:16;default:'anonymous'"`
	ContactRefID        *uint       `json:"contact_ref_id"`
	ContactName         string      `json:"contact_name"`
	ContactEmail        string      `json:"contact_email"`
	ContactPhone        string      `json:"contact_phone"`
	Active              bool        `json:"active" gorm:"default:true"`
	ExpiresAt           *time.Time  `json:"expires_at"`
	UsageCount          int64       `json:"usage_count" gorm:"default:0"`
}

func (l *BookingLink) BeforeCreate(tx *gorm.DB) error {
	if l.Token == "" {
		l.Token = uuid.NewString()
	}
	return nil
}

// Usable reports whether the link can still resolve to a booking flow.
func (l *BookingLink) Usable(now time.Time) bool {
	if !l.Active {
		return false
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return false
	}
	return true
}
