package notify

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/utils"
)

// Dispatcher puts notification work on the outbound queue. Every method is
// fire-and-forget: a broker hiccup is logged and dropped, it never bubbles
// into the booking that triggered it.
type Dispatcher struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewDispatcher(redisAddr string) *Dispatcher {
	return &Dispatcher{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		logger: utils.GetLogger(),
	}
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}

func payloadFromBooking(b *models.Booking) BookingPayload {
	p := BookingPayload{
		BookingID:    b.ID,
		OwnerID:      b.OwnerID,
		Title:        b.Title,
		Start:        b.StartDatetime,
		End:          b.EndDatetime,
		DurationMin:  b.DurationMin,
		ContactName:  b.ContactName,
		ContactEmail: b.ContactEmail,
		ContactPhone: b.ContactPhone,
	}
	if b.LinkToken != nil {
		p.LinkToken = *b.LinkToken
	}
	return p
}

// BookingCreated implements booking.Notifier.
func (d *Dispatcher) BookingCreated(b *models.Booking) {
	task, err := NewBookingCreatedTask(payloadFromBooking(b))
	if err != nil {
		d.logger.Error("could not build booking-created task", zap.Error(err))
		return
	}
	if _, err := d.client.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		d.logger.Error("could not enqueue booking-created notification",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}

// Reminder enqueues the pre-meeting reminder for a booking.
func (d *Dispatcher) Reminder(b *models.Booking) {
	task, err := NewReminderTask(payloadFromBooking(b))
	if err != nil {
		d.logger.Error("could not build reminder task", zap.Error(err))
		return
	}
	if _, err := d.client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		d.logger.Error("could not enqueue reminder",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}
