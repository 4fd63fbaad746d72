package handlers

import (
	"errors"
	"net/http"

	"maravi/models"
	"maravi/services/checkout"
	"maravi/services/payment"
	"maravi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the checkout orchestrator over HTTP.
type CheckoutHandler struct {
	service checkout.CheckoutService
	logger  *zap.Logger
}

func NewCheckoutHandler(service checkout.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, logger: logger}
}

// Checkout builds an order from the posted cart and returns the hosted
// checkout URL the customer is redirected to.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var input models.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), input)
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "checkout rejected", vErr.Message)
			return
		}
		var upErr *payment.UpstreamError
		if errors.As(err, &upErr) {
			// The order may exist without a session; the customer can retry.
			utils.JSONError(c, http.StatusBadGateway, "payment gateway unavailable", "please try again")
			return
		}
		h.logger.Error("Checkout failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "checkout failed", "please contact support")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":       result.Order,
		"checkoutUrl": result.CheckoutURL,
		"txRef":       result.TxRef,
	})
}
