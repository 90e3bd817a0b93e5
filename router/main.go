package router

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"labexams/database"
	"labexams/handlers"
	exam_handlers "labexams/handlers/exam"
	laboratory_handlers "labexams/handlers/laboratory"
	"labexams/utils/cache"
	"labexams/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Request ids for access log correlation
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))

	// Optional Redis-backed throttle; skipped entirely when Redis is not
	// configured or unreachable
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err := cache.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Request throttling disabled.", err)
		} else {
			throttle := middleware.NewRequestThrottle(redisCache)
			app.Use(throttle.Limit())
		}
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store)
	laboratoryHandler := laboratory_handlers.NewLaboratoryHandler(db)
	examHandler := exam_handlers.NewExamHandler(db)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Welcome!",
		})
	})

	app.Get("/health", healthHandler.Check)

	// Laboratories
	app.Post("/laboratories", laboratoryHandler.Store)
	app.Get("/laboratories", laboratoryHandler.Index)
	app.Get("/laboratories/:id", laboratoryHandler.Show)
	app.Put("/laboratories/:id", laboratoryHandler.Update)
	app.Delete("/laboratories/:id", laboratoryHandler.Destroy)
	app.Patch("/laboratories/:id", laboratoryHandler.Associate)

	// Exams (show is by name, the natural key)
	app.Post("/exams", examHandler.Store)
	app.Get("/exams", examHandler.Index)
	app.Get("/exams/:name", examHandler.Show)
	app.Put("/exams/:id", examHandler.Update)
	app.Delete("/exams/:id", examHandler.Destroy)
	app.Patch("/exams/:id", examHandler.Associate)

	// Bulk operations
	app.Post("/bulk/laboratories", laboratoryHandler.CreateMany)
	app.Put("/bulk/laboratories", laboratoryHandler.UpdateMany)
	app.Delete("/bulk/laboratories", laboratoryHandler.RemoveMany)

	app.Post("/bulk/exams", examHandler.CreateMany)
	app.Put("/bulk/exams", examHandler.UpdateMany)
	app.Delete("/bulk/exams", examHandler.RemoveMany)
}
