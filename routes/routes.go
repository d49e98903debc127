package routes

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-reservation/controllers"
	"hotel-reservation/middleware"
)

// Controllers bundles the handlers SetupRouter mounts.
type Controllers struct {
	Reservations *controllers.ReservationController
	Rooms        *controllers.RoomController
	Extras       *controllers.ExtraController
	Hotel        *controllers.HotelController
	Auth         *controllers.AuthController
	Admins       *controllers.AdminController
}

// SetupRouter wires the API. Catalogue writes and admin management need a
// bearer token from /api/auth/login; the reservation flow is public.
func SetupRouter(ctl Controllers, tokens middleware.TokenParser, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := !slices.Contains(origins, "*")

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAdmin := middleware.RequireAdmin(tokens)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ctl.Auth.Login)
		}

		hotel := api.Group("/hotel")
		{
			hotel.GET("", ctl.Hotel.GetHotelSettings)
			hotel.PUT("", requireAdmin, ctl.Hotel.UpdateHotelSettings)
		}

		api.GET("/room-types", controllers.GetRoomTypes)

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.POST("", requireAdmin, ctl.Rooms.CreateRoom)
			rooms.PATCH("/:id", requireAdmin, ctl.Rooms.UpdateRoom)
			rooms.PUT("/:id", requireAdmin, ctl.Rooms.UpdateRoom)
			rooms.DELETE("/:id", requireAdmin, ctl.Rooms.DeleteRoom)
		}

		extras := api.Group("/extras")
		{
			extras.GET("", ctl.Extras.GetExtras)
			extras.POST("", requireAdmin, ctl.Extras.CreateExtra)
			extras.DELETE("/:id", requireAdmin, ctl.Extras.DeleteExtra)
		}

		admins := api.Group("/admins", requireAdmin)
		{
			admins.GET("", ctl.Admins.GetAdmins)
			admins.POST("", ctl.Admins.CreateAdmin)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", requireAdmin, ctl.Reservations.List)
			reservations.POST("", ctl.Reservations.Create)
			reservations.GET("/:id", ctl.Reservations.Get)
			reservations.DELETE("/:id", ctl.Reservations.Delete)

			reservations.PUT("/:id/room", ctl.Reservations.AssignRoom)
			reservations.PUT("/:id/dates", ctl.Reservations.UpdateDates)

			reservations.POST("/:id/guests", ctl.Reservations.AddGuest)
			reservations.PUT("/:id/guests", ctl.Reservations.ReplaceGuests)
			reservations.DELETE("/:id/guests/:tempId", ctl.Reservations.RemoveGuest)

			reservations.GET("/:id/extras/available", ctl.Reservations.AvailableExtras)
			reservations.PUT("/:id/extras", ctl.Reservations.SetExtras)
			reservations.DELETE("/:id/extras", ctl.Reservations.ClearExtras)

			reservations.PUT("/:id/meal-plans", ctl.Reservations.SetMealPlans)
			reservations.DELETE("/:id/meal-plans", ctl.Reservations.ClearMealPlans)

			reservations.GET("/:id/quote", ctl.Reservations.Quote)

			reservations.POST("/:id/payments", ctl.Reservations.Pay)
			reservations.GET("/:id/payments", ctl.Reservations.Payments)
		}
	}

	return r
}
