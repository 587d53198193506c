package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

type ContactKind string

const (
	ContactLead      ContactKind = "lead"
	ContactMentee    ContactKind = "mentee"
	ContactAnonymous ContactKind = "anonymous"
)

// Booking is the only durable artifact of the booking flow. Rows are never
// hard-deleted; cancellation sets status=cancelled so the audit trail
// survives. The partial unique index on (owner_id, start_datetime) is what
// makes the commit step safe under concurrent writers.
type Booking struct {
	ID            string        `json:"id" gorm:"primaryKey;size:36"`
	OwnerID       uint          `json:"owner_id" gorm:"not null;index;uniqueIndex:uniq_owner_start,where:status <> 'cancelled'"`
	StartDatetime time.Time     `json:"start_datetime" gorm:"not null;index;uniqueIndex:uniq_owner_start,where:status <> 'cancelled'"`
	EndDatetime   time.Time     `json:"end_datetime" gorm:"not null"`
	DurationMin   int           `json:"duration_minutes" gorm:"not null"`
	Title         string        `json:"title"`
	Status        BookingStatus `json:"status" gorm:"size:16;not null;index"`
	ContactKind   ContactKind   `json:"contact_kind" gorm:"size:16;default:'anonymous'"`
	ContactRefID  *uint         `json:"contact_ref_id"`
	ContactName   string        `json:"contact_name"`
	ContactEmail  string        `json:"contact_email"`
	ContactPhone  string        `json:"contact_phone"`
	LinkToken     *string       `json:"link_token,omitempty" gorm:"size:36;index"`
	ReminderSent  bool          `json:"reminder_sent" gorm:"default:false"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = StatusScheduled
	}
	if b.EndDatetime.IsZero() && b.DurationMin > 0 {
		b.EndDatetime = b.StartDatetime.Add(time.Duration(b.DurationMin) * time.Minute)
	}
	return nil
}

// Blocks reports whether this booking still occupies its time window.
func (b *Booking) Blocks() bool {
	return b.Status == StatusScheduled || b.Status == StatusConfirmed
}

// UpdateStatus applies a staff-initiated status transition and persists it.
func (b *Booking) UpdateStatus(tx *gorm.DB, newStatus BookingStatus) error {
	switch b.Status {
	case StatusScheduled:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled && newStatus != StatusNoShow {
			return fmt.Errorf("invalid transition from scheduled to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCancelled && newStatus != StatusNoShow {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	}

	b.Status = newStatus
	return tx.Save(b).Error
}
