package bookingRepo

import "maravi/models"

// BookingRepository defines the interface for booking and slot data access.
// Slot capacity moves only through HoldSlot/ReleaseSlot, which are single
// conditional updates, never read-then-write.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	MarkPaid(id string, payment models.PaymentDetails) error
	UpdateStatus(id string, from, to models.Status) error

	GetSlot(id string) (*models.ServiceSlot, error)
	// HoldSlot atomically takes one unit of slot capacity. Returns
	// ErrSlotUnavailable when the slot is blocked, full or missing.
	HoldSlot(slotID string) error
	// ReleaseSlot returns one unit of capacity, used when a booking is
	// canceled before payment.
	ReleaseSlot(slotID string) error
}
