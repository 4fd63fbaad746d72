package models

// BookingInput is everything the booking orchestrator needs: the service,
// the requested slot and the full/partial payment choice.
type BookingInput struct {
	ServiceID      string `json:"serviceId" binding:"required"`
	SlotID         string `json:"slotId" binding:"required"`
	PartialPayment bool   `json:"partialPayment"`
	CustomerName   string `json:"customerName" binding:"required"`
	CustomerEmail  string `json:"customerEmail" binding:"required,email"`
	CustomerPhone  string `json:"customerPhone" binding:"required"`
}

// BookingResult is returned once a booking is persisted and a payment
// session opened.
type BookingResult struct {
	Booking     *Booking `json:"booking"`
	CheckoutURL string   `json:"checkoutUrl"`
	TxRef       string   `json:"txRef"`
}
