package handlers

import (
	"errors"
	"net/http"

	"maravi/models"
	"maravi/services/booking"
	"maravi/services/payment"
	"maravi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking orchestrator over HTTP.
type BookingHandler struct {
	service booking.BookingService
	logger  *zap.Logger
}

func NewBookingHandler(service booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

// Book reserves a slot, persists a PENDING booking and returns the hosted
// checkout URL.
func (h *BookingHandler) Book(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.service.Book(c.Request.Context(), input)
	if err != nil {
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "booking rejected", vErr.Message)
			return
		}
		if errors.Is(err, booking.ErrSlotUnavailable) {
			utils.JSONError(c, http.StatusConflict, "time slot unavailable", "please pick another slot")
			return
		}
		var upErr *payment.UpstreamError
		if errors.As(err, &upErr) {
			utils.JSONError(c, http.StatusBadGateway, "payment gateway unavailable", "please try again")
			return
		}
		h.logger.Error("Booking failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking failed", "please contact support")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":     result.Booking,
		"checkoutUrl": result.CheckoutURL,
		"txRef":       result.TxRef,
	})
}
