package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/mentorbase/agenda-api/controllers"
	"github.com/mentorbase/agenda-api/cron"
	"github.com/mentorbase/agenda-api/db"
	"github.com/mentorbase/agenda-api/redis"
	"github.com/mentorbase/agenda-api/routes"
	"github.com/mentorbase/agenda-api/services/booking"
	"github.com/mentorbase/agenda-api/services/notify"
	"github.com/mentorbase/agenda-api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	utils.InitializeLogger()
	db.Init()
	if os.Getenv("AUTO_MIGRATE") == "true" {
		db.Migrate()
	}
	redis.InitRedis()

	redisAddr := os.Getenv("REDIS_ADDR")
	dispatcher := notify.NewDispatcher(redisAddr)
	defer dispatcher.Close()

	go func() {
		if err := notify.StartWorker(redisAddr); err != nil {
			log.Fatalf("Notification worker stopped: %v", err)
		}
	}()

	coordinator := booking.NewCoordinator(
		booking.NewGormRepository(db.DB),
		dispatcher,
		utils.GetLogger(),
	)
	controllers.SetupEngine(coordinator)

	cron.StartCronJobs(dispatcher)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.SetupAvailabilityRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupBookingLinkRoutes(app)
	routes.SetupScheduleConfigRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
