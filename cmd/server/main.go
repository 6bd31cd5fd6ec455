package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/showbookie/movie-booking/internal/config"     // Internal config loader
	"github.com/showbookie/movie-booking/internal/database"   // MySQL connection pool
	"github.com/showbookie/movie-booking/internal/handler"    // HTTP handlers
	"github.com/showbookie/movie-booking/internal/queue"      // Booking event consumer
	"github.com/showbookie/movie-booking/internal/repository" // Data access layer
	"github.com/showbookie/movie-booking/internal/router"     // Route registration
	"github.com/showbookie/movie-booking/internal/service"    // Booking orchestration
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// The allocator is pluggable: the max+1 scan reproduces historical
	// behavior, the sequence table is the hardened default for
	// deployments without serializable isolation.
	var alloc repository.IDAllocator
	switch cfg.IDAllocator {
	case "sequence":
		alloc = repository.NewSequenceAllocator()
	default:
		alloc = repository.NewMaxScanAllocator()
	}

	userRepo := repository.NewUserRepo(db, alloc)
	movieRepo := repository.NewMovieRepo(db)
	theaterRepo := repository.NewTheaterRepo(db)
	showRepo := repository.NewShowRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	bookingSvc := service.NewBookingService(showRepo, bookingRepo, alloc, queue.NewAMQPPublisher())

	rdb := config.NewRedisClient() // nil disables caching and rate limiting
	if rdb == nil {
		log.Println("redis unavailable; catalog cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo), cfg.JWTSecret, rlCfg, rdb)
	router.RegisterCatalog(e, handler.NewCatalogHandler(movieRepo, theaterRepo, showRepo, rdb, cacheCfg))
	router.RegisterBooking(e, handler.NewBookingHandler(bookingSvc), cfg.JWTSecret, rlCfg, rdb)

	// Consume booking events in the background; the consumer runs its
	// own reconnect loop and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
