package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/config"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/middleware"
	"github.com/tourplatform/tour-booking-backend/pkg/jwt"
)

// RouterConfig carries everything the HTTP surface is built from
type RouterConfig struct {
	DB               database.DB
	JWTService       *jwt.Service
	CORS             config.CORSConfig
	EnableRequestLog bool
	Version          string
	Logger           *logrus.Logger

	Auth    *AuthHandler
	Catalog *CatalogHandler
	Booking *BookingHandler
	Admin   *AdminHandler
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(rc RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if rc.EnableRequestLog {
		router.Use(middleware.RequestLogger(rc.Logger))
	}

	router.Use(cors.New(corsConfig(rc.CORS)))

	router.GET("/health", healthCheckHandler(rc.DB, rc.Version))

	authenticated := middleware.AuthMiddleware(rc.JWTService, rc.Logger)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", rc.Auth.Register)
		auth.POST("/login", rc.Auth.Login)
		auth.POST("/logout", rc.Auth.Logout)

		api.GET("/packages", rc.Catalog.ListAvailablePackages)
		api.GET("/itinerary/:packageId", authenticated, rc.Catalog.GetItinerary)

		user := api.Group("/user", authenticated, middleware.RequireRole(jwt.RoleUser))
		user.GET("/packages", rc.Catalog.ListAvailablePackages)
		user.GET("/itinerary/:packageId", rc.Catalog.GetItinerary)
		user.POST("/bookings", rc.Booking.CreateBooking)
		user.GET("/bookings", rc.Booking.ListBookings)
		user.PUT("/bookings/:bookingId/cancel", rc.Booking.CancelBooking)
		user.POST("/payments", rc.Booking.CreatePayment)

		admin := api.Group("/admin", authenticated, middleware.RequireRole(jwt.RoleAdmin))
		admin.GET("/stats", rc.Admin.GetStats)

		admin.GET("/packages", rc.Catalog.ListAllPackages)
		admin.POST("/packages", rc.Catalog.CreatePackage)
		admin.PUT("/packages/:packageId", rc.Catalog.UpdatePackage)
		admin.DELETE("/packages/:packageId", rc.Catalog.DeletePackage)

		admin.GET("/users", rc.Admin.ListUsers)
		admin.DELETE("/users/:userId", rc.Admin.DeleteUser)
		admin.GET("/bookings", rc.Admin.ListBookings)
		admin.DELETE("/bookings/:bookingId", rc.Admin.DeleteBooking)
		admin.GET("/payments", rc.Admin.ListPayments)

		admin.GET("/itinerary/:packageId", rc.Catalog.GetItinerary)
		admin.POST("/itinerary/:packageId", rc.Catalog.AddItineraryItem)
		admin.DELETE("/itinerary/:itemId", rc.Catalog.DeleteItineraryItem)

		admin.POST("/cron/complete-bookings", rc.Admin.RunCompleteBookings)
		admin.GET("/cron/status", rc.Admin.GetCronStatus)
	}

	return router
}

// corsConfig translates the configured origins. A wildcard (or no origin
// at all) allows every origin without credentials.
func corsConfig(cfg config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  cfg.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		cc.AllowAllOrigins = true
		return cc
	}

	cc.AllowOrigins = cfg.AllowedOrigins
	cc.AllowCredentials = true
	return cc
}

func healthCheckHandler(db database.DB, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
