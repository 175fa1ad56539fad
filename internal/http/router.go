package api

import (
	"log"
	stdhttp "net/http"

	intconfig "aerodesk/internal/config"
	h "aerodesk/internal/http/handlers"
	"aerodesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Setup(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	secret := []byte(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Flight search
		search := api.Group("/search")
		search.GET("", h.Search)
		search.POST("/multi-city", h.SearchMultiCity)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:reference", h.GetBooking)
		bookings.GET("/:reference/e-ticket", h.GetBookingETicketPDF)

		// Back office, role-gated
		backoffice := bookings.Group("")
		backoffice.Use(middleware.RequireAuth(secret))
		backoffice.GET("", middleware.RequireRoles("agent", "admin"), h.ListBookings)
		backoffice.PUT("/:reference/payment-status", middleware.RequireRoles("agent", "admin"), h.UpdateBookingPaymentStatus)
	}

	return r
}
