package routes

import (
	"net/http"
	"time"

	"classhub/config"
	"classhub/handlers"
	"classhub/middleware"
	"classhub/models"
	"classhub/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Booking  *handlers.BookingHandler
	Activity *handlers.ActivityHandler
	Catalog  *handlers.CatalogHandler
	Push     *handlers.PushHandler
	Chat     *handlers.ChatHandler
	Gateway  *realtime.Gateway
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/bookings")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("", middleware.RequireRoles(models.RoleParent, models.RoleChild, models.RoleAdmin), h.Booking.CreateBooking)
		api.GET("", h.Booking.GetOwnBookings)
		api.GET("/:id", h.Booking.GetBooking)
		api.PUT("/:id", h.Booking.EditBooking)
		api.DELETE("/:id", h.Booking.CancelBooking)
	}
}

// RegisterActivityRoutes sets up workshop management and browsing.
func RegisterActivityRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/activities")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("", h.Activity.ListActivities)
		api.GET("/:id", h.Activity.GetActivity)

		staff := api.Group("")
		staff.Use(middleware.RequireRoles(models.RoleStaff, models.RoleAdmin))
		staff.POST("", h.Activity.CreateActivity)
		staff.PUT("/:id", h.Activity.UpdateActivity)
		staff.PATCH("/:id/status", h.Activity.SetActivityStatus)
		staff.GET("/:id/bookings", h.Booking.GetActivityBookings)
	}
}

// RegisterCatalogRoutes sets up the read-only catalog endpoints.
func RegisterCatalogRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/catalog")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/services/:serviceId/items", h.Catalog.ListItems)
		api.GET("/items/:id", h.Catalog.GetItem)
	}
}

// RegisterPushRoutes sets up durable push subscription management.
func RegisterPushRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/push")
	{
		api.GET("/public-key", h.Push.PublicKey)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		protected.POST("/subscriptions", h.Push.Subscribe)
		protected.DELETE("/subscriptions", h.Push.Unsubscribe)
	}
}

// RegisterChatRoutes sets up the conversation endpoints.
func RegisterChatRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/conversations")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("", middleware.RequireRoles(models.RoleParent, models.RoleChild), h.Chat.StartConversation)
		api.POST("/:id/messages", h.Chat.SendMessage)
		api.GET("/:id/messages", h.Chat.GetMessages)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, h)
	RegisterActivityRoutes(r, h)
	RegisterCatalogRoutes(r, h)
	RegisterPushRoutes(r, h)
	RegisterChatRoutes(r, h)
	RegisterHealthRoute(r)

	// Live channel. Clients join activity and conversation rooms after
	// connecting.
	r.GET("/ws", middleware.AuthMiddleware(), h.Gateway.Handle)
}
