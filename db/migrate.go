package db

import (
	"fmt"
	"log"

	"github.com/mentorbase/agenda-api/models"
)

func Migrate() {
	if DB == nil {
		Init()
	}

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.ScheduleConfig{},
		&models.BookingLink{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
