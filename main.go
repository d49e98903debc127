package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-reservation/config"
	"hotel-reservation/controllers"
	"hotel-reservation/routes"
	"hotel-reservation/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	if cfg.UsesDefaultJWTSecret() {
		log.Println("⚠️  JWT_SECRET is not set; admin tokens are signed with the default key (sqlite only)")
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	log.Printf("✅ Database connection established (%s)", cfg.DBDriver)

	var quotes *services.QuoteCache
	if cfg.RedisEnabled {
		if client := config.NewRedisClient(); client != nil {
			defer func() { _ = client.Close() }()
			quotes = services.NewQuoteCache(client, cfg.QuoteCacheTTL)
			log.Println("✅ Quote cache enabled")
		}
	}

	var publisher services.EventPublisher
	if cfg.EventsEnabled {
		publisher = services.NewAMQPPublisher(cfg.RabbitMQURL)
		log.Println("✅ reservation.paid events enabled")
	}

	// Initialize services
	reservationService := services.NewReservationService(db, quotes)
	paymentService := services.NewPaymentService(db, quotes, publisher)
	roomService := services.NewRoomService(db, quotes)
	extraService := services.NewExtraService(db, quotes)
	hotelService := services.NewHotelService(db, quotes)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	adminService := services.NewAdminService(db)

	// Build router
	router := routes.SetupRouter(routes.Controllers{
		Reservations: controllers.NewReservationController(reservationService, paymentService),
		Rooms:        controllers.NewRoomController(roomService),
		Extras:       controllers.NewExtraController(extraService),
		Hotel:        controllers.NewHotelController(hotelService),
		Auth:         controllers.NewAuthController(authService),
		Admins:       controllers.NewAdminController(adminService),
	}, authService, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
