package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mentorbase/agenda-api/db"
	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/services/notify"
)

// StartCronJobs initializes and starts the scheduler for the agenda sweeps.
func StartCronJobs(dispatcher *notify.Dispatcher) {
	c := cron.New()

	// Run every minute to catch bookings starting in the next hour
	_, err := c.AddFunc("* * * * *", func() { enqueueReminders(dispatcher) })
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}

	// Hourly hygiene: scheduled bookings far past their start never happened
	_, err = c.AddFunc("0 * * * *", markNoShows)
	if err != nil {
		log.Fatalf("Failed to add no-show cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started for reminders and no-show sweep")
}

// enqueueReminders finds confirmed bookings starting in about an hour and
// puts a reminder on the outbound queue. ReminderSent keeps the
// once-a-minute sweep from re-sending for the whole ten-minute window.
func enqueueReminders(dispatcher *notify.Dispatcher) {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var bookings []models.Booking
	err := db.DB.
		Where("status = ? AND reminder_sent = ? AND start_datetime BETWEEN ? AND ?",
			models.StatusConfirmed, false, startWindow, endWindow).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching bookings for reminders: %v", err)
		return
	}

	for i := range bookings {
		dispatcher.Reminder(&bookings[i])
		if err := db.DB.Model(&bookings[i]).UpdateColumn("reminder_sent", true).Error; err != nil {
			log.Printf("Failed to mark reminder sent for booking %s: %v", bookings[i].ID, err)
			continue
		}
		log.Printf("Enqueued reminder for booking %s", bookings[i].ID)
	}
}

// markNoShows flips scheduled bookings whose start is more than 12 hours
// past to no_show. Confirmed bookings are left for staff to close out.
func markNoShows() {
	cutoff := time.Now().Add(-12 * time.Hour)

	res := db.DB.Model(&models.Booking{}).
		Where("status = ? AND start_datetime < ?", models.StatusScheduled, cutoff).
		Update("status", models.StatusNoShow)
	if res.Error != nil {
		log.Printf("Error marking no-shows: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Marked %d bookings as no_show", res.RowsAffected)
	}
}
