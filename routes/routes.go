package routes

import (
	"time"

	"maravi/handlers"
	"maravi/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Checkout *handlers.CheckoutHandler
	Booking  *handlers.BookingHandler
	Store    *handlers.StoreHandler
	Payment  *handlers.PaymentHandler
}

// RegisterRoutes centralizes registration of all endpoints and global
// middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterStoreRoutes(r, h.Checkout, h.Booking, h.Store)
	RegisterPaymentRoutes(r, h.Payment)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, utils.GetHealthStatus())
	})
}

// RegisterStoreRoutes registers the storefront endpoints: checkout, booking
// and the read-side lookups.
func RegisterStoreRoutes(r *gin.Engine, checkout *handlers.CheckoutHandler, booking *handlers.BookingHandler, store *handlers.StoreHandler) {
	api := r.Group("/api")
	{
		api.POST("/checkout", checkout.Checkout)
		api.POST("/bookings", booking.Book)
		api.GET("/orders/:id", store.GetOrder)
		api.GET("/bookings/:id", store.GetBooking)
	}
}
