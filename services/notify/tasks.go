package notify

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingCreated = "notify:booking_created"
	TypeReminder       = "notify:reminder"
)

// BookingPayload is everything a notification needs about a committed
// booking; the queue never reads the database.
type BookingPayload struct {
	BookingID    string    `json:"booking_id"`
	OwnerID      uint      `json:"owner_id"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationMin  int       `json:"duration_minutes"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	LinkToken    string    `json:"link_token,omitempty"`
}

func NewBookingCreatedTask(payload BookingPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingCreated, b), nil
}

func NewReminderTask(payload BookingPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReminder, b), nil
}
