package handlers

import (
	"net/http"

	bookingRepo "maravi/database/repository/booking"
	orderRepo "maravi/database/repository/order"
	"maravi/utils"

	"github.com/gin-gonic/gin"
)

// StoreHandler serves order and booking status lookups.
type StoreHandler struct {
	orders   orderRepo.OrderRepository
	bookings bookingRepo.BookingRepository
}

func NewStoreHandler(orders orderRepo.OrderRepository, bookings bookingRepo.BookingRepository) *StoreHandler {
	return &StoreHandler{orders: orders, bookings: bookings}
}

func (h *StoreHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "order lookup failed", "")
		return
	}
	if order == nil {
		utils.JSONError(c, http.StatusNotFound, "order not found", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *StoreHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "booking lookup failed", "")
		return
	}
	if booking == nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, booking)
}
