package models

import "time"

// LedgerEntryType classifies the monetary event.
type LedgerEntryType string

const (
	LedgerOrderSale      LedgerEntryType = "ORDER_SALE"
	LedgerBookingPayment LedgerEntryType = "BOOKING_PAYMENT"
)

// LedgerEntry is an immutable, append-only financial record. Entries are
// never updated except by explicit reversal, which only sets the reversal
// fields; no negative counter-entry is written.
type LedgerEntry struct {
	ID             string          `bson:"id" json:"id"`
	Type           LedgerEntryType `bson:"type" json:"type"`
	Reference      string          `bson:"reference" json:"reference"` // gateway tx_ref
	OrderID        string          `bson:"order_id,omitempty" json:"orderId,omitempty"`
	BookingID      string          `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	Amount         float64         `bson:"amount" json:"amount"`
	Currency       string          `bson:"currency" json:"currency"`
	Description    string          `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt      time.Time       `bson:"created_at" json:"createdAt"`
	ReversedAt     *time.Time      `bson:"reversed_at,omitempty" json:"reversedAt,omitempty"`
	ReversedBy     string          `bson:"reversed_by,omitempty" json:"reversedBy,omitempty"`
	ReversalReason string          `bson:"reversal_reason,omitempty" json:"reversalReason,omitempty"`
}
