package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/contacts-api/internal/config"
	"github.com/iliyamo/contacts-api/internal/database"
	"github.com/iliyamo/contacts-api/internal/handler"
	"github.com/iliyamo/contacts-api/internal/queue"
	"github.com/iliyamo/contacts-api/internal/repository"
	"github.com/iliyamo/contacts-api/internal/router"
	queue_publisher "github.com/iliyamo/contacts-api/internal/service"
	"github.com/iliyamo/contacts-api/internal/validator"
)

func main() {
	_ = godotenv.Load() // .env is optional outside local dev

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter. Startup proceeds without it; the
	// limiter middleware degrades to a pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	rlCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	contacts := repository.NewContactRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, queue_publisher.New())
	contactHandler := handler.NewContactHandler(contacts)
	healthHandler := handler.NewHealthHandler(db)

	e := echo.New()
	e.Validator = validator.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, healthHandler, rlCfg, rdb)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, users)
	router.RegisterContacts(e, contactHandler, cfg.JWTSecret, users, rlCfg, rdb)

	// The mail worker runs inside the API process; it reconnects on
	// its own and never takes the server down with it.
	go func() {
		if err := queue.StartMailConsumer(); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
