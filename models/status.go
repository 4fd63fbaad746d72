package models

// Status is the shared lifecycle state for orders and bookings. Both follow
// the same shape: PENDING -> PAID -> PROCESSING/CONFIRMED -> SHIPPED (orders
// only) -> COMPLETED, with side exits CANCELED, REFUNDED and, for bookings,
// NO_SHOW.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusPaid       Status = "PAID"
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusShipped    Status = "SHIPPED"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
	StatusRefunded   Status = "REFUNDED"
	StatusNoShow     Status = "NO_SHOW"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusPaid: true, StatusCanceled: true},
	StatusPaid:       {StatusProcessing: true, StatusConfirmed: true, StatusRefunded: true, StatusNoShow: true},
	StatusProcessing: {StatusShipped: true, StatusCompleted: true, StatusRefunded: true},
	StatusConfirmed:  {StatusCompleted: true, StatusRefunded: true, StatusNoShow: true},
	StatusShipped:    {StatusCompleted: true, StatusRefunded: true},
	StatusCompleted:  {},
	StatusCanceled:   {},
	StatusRefunded:   {},
	StatusNoShow:     {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// AtLeastPaid reports whether a successful payment has already been applied.
// Used as the idempotency guard when gateway callbacks are replayed.
func (s Status) AtLeastPaid() bool {
	switch s {
	case StatusPaid, StatusProcessing, StatusConfirmed, StatusShipped,
		StatusCompleted, StatusRefunded, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusRefunded, StatusNoShow:
		return true
	}
	return false
}
