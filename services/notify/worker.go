package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/mentorbase/agenda-api/utils"
)

// StartWorker runs the outbound notification consumer. Returning an error
// from a handler makes asynq retry the delivery with backoff; the bookings
// themselves are long committed by then.
func StartWorker(redisAddr string) error {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingCreated, handleBookingCreated)
	mux.HandleFunc(TypeReminder, handleReminder)

	return srv.Run(mux)
}

func handleBookingCreated(ctx context.Context, t *asynq.Task) error {
	var p BookingPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("bad booking-created payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.ContactEmail == "" {
		utils.GetLogger().Info("booking has no contact email, skipping confirmation",
			zap.String("booking_id", p.BookingID))
		return nil
	}

	subject := fmt.Sprintf("Confirmed: %s", p.Title)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your meeting has been scheduled.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Title:</strong> %s</li>
			<li><strong>Start:</strong> %s</li>
			<li><strong>Duration:</strong> %d minutes</li>
		</ul>
		<p>If you need to reschedule or cancel, reply to this email.</p>
		<p>Best regards,</p>
		<p>Your Mentorship Team</p>
	`, p.ContactName, p.Title,
		p.Start.Format("2006-01-02 15:04"), p.DurationMin)

	if err := utils.SendEmail(p.ContactEmail, subject, body); err != nil {
		utils.GetLogger().Warn("booking confirmation email failed, will retry",
			zap.String("booking_id", p.BookingID), zap.Error(err))
		return err
	}
	return nil
}

func handleReminder(ctx context.Context, t *asynq.Task) error {
	var p BookingPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("bad reminder payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.ContactEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Reminder: Upcoming meeting - %s", p.Title)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your meeting scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Title:</strong> %s</li>
			<li><strong>Start:</strong> %s</li>
			<li><strong>Duration:</strong> %d minutes</li>
		</ul>
		<p>Please be on time. If you need to reschedule, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your Mentorship Team</p>
	`, p.ContactName, p.Title,
		p.Start.Format("2006-01-02 15:04"), p.DurationMin)

	if err := utils.SendEmail(p.ContactEmail, subject, body); err != nil {
		utils.GetLogger().Warn("reminder email failed, will retry",
			zap.String("booking_id", p.BookingID), zap.Error(err))
		return err
	}
	return nil
}
