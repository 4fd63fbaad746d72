package orderRepo

import "maravi/models"

// OrderRepository defines the interface for order data access. Status moves
// only through conditional updates so concurrent reconciliation attempts
// cannot race each other past the state machine.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// MarkPaid transitions PENDING -> PAID and attaches payment details in a
	// single conditional update. Returns ErrStaleStatus when the order is no
	// longer PENDING.
	MarkPaid(id string, payment models.PaymentDetails) error
	// UpdateStatus applies a conditional from -> to transition.
	UpdateStatus(id string, from, to models.Status) error
	SetReservationStatus(id string, status models.ReservationStatus) error
}
