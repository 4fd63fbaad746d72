package routes

import (
	"maravi/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes registers the gateway-facing endpoints. The webhook
// authenticates with an HMAC signature rather than the API middleware stack.
func RegisterPaymentRoutes(r *gin.Engine, payment *handlers.PaymentHandler) {
	pay := r.Group("/api/payments")
	{
		pay.POST("/webhook", payment.Webhook)
		pay.GET("/verify/:txRef", payment.Verify)
	}
}
