package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/school-management/internal/config"     // Internal config loader
	"github.com/iliyamo/school-management/internal/database"   // MySQL pool setup
	"github.com/iliyamo/school-management/internal/handler"    // HTTP handlers
	"github.com/iliyamo/school-management/internal/queue"      // Notification consumer
	"github.com/iliyamo/school-management/internal/repository" // Data access layer
	"github.com/iliyamo/school-management/internal/router"     // Route registration
	"github.com/iliyamo/school-management/internal/service"    // Business logic
)

func main() {
	// Load a local .env file when present; in production the variables
	// come from the environment and the file is simply absent.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load() // Load environment config; missing required vars are fatal

	// Open the MySQL pool and verify connectivity before serving.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: a nil client disables login lockout tracking
	// but the rest of the service keeps working.
	rdb := config.NewRedisClient()
	lockout := service.NewLockoutService(rdb, config.LoadLockoutConfig())

	auth := service.NewAuthService(db, cfg, lockout, service.QueuePublisher{})

	// The notification consumer drains the user.registered and
	// password.reset queues in the background and reconnects on broker
	// failures.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notify-consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	authHandler := handler.NewAuthHandler(auth)
	userHandler := handler.NewUserHandler(auth)
	studentHandler := handler.NewStudentHandler(repository.NewStudentRepo(db))
	teacherHandler := handler.NewTeacherHandler(repository.NewTeacherRepo(db))

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authHandler, userHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, userHandler, cfg.JWTSecret)
	router.RegisterRecords(e, studentHandler, teacherHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
