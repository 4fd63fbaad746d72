package models

import "time"

// Payment session lifecycle values as reported by the gateway.
const (
	SessionOpened  = "opened"
	SessionPaid    = "paid"
	SessionFailed  = "failed"
	SessionExpired = "expired"
)

// PaymentSession records one hosted-checkout attempt. TxRef is the
// idempotency key for reconciliation: exactly one ledger entry may ever be
// posted per TxRef.
type PaymentSession struct {
	TxRef         string    `bson:"tx_ref" json:"txRef"`
	TransactionID string    `bson:"transaction_id" json:"transactionId"`
	OrderID       string    `bson:"order_id,omitempty" json:"orderId,omitempty"`
	BookingID     string    `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
	Status        string    `bson:"status" json:"status"`
	CheckoutURL   string    `bson:"checkout_url" json:"checkoutUrl"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// SessionRequest is the payload sent to the gateway when opening a session.
// The order or booking identity rides in Metadata so a callback can always
// be mapped back to exactly one record.
type SessionRequest struct {
	OrderID       string            `json:"orderId,omitempty"`
	BookingID     string            `json:"bookingId,omitempty"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerName  string            `json:"customerName"`
	FirstName     string            `json:"firstName,omitempty"`
	LastName      string            `json:"lastName,omitempty"`
	Description   string            `json:"description,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// SessionResult is what the gateway returns for a freshly opened session.
type SessionResult struct {
	CheckoutURL   string `json:"checkoutUrl"`
	TxRef         string `json:"txRef"`
	TransactionID string `json:"transactionId"`
}

// Gateway callback status values.
const (
	CallbackSuccess = "success"
	CallbackFailed  = "failed"
	CallbackPending = "pending"
)

// CallbackCustomer is the customer block echoed back by the gateway.
type CallbackCustomer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// GatewayCallback is the wire shape of a webhook push or verification poll
// result. Delivery is at-least-once; the reconciler must treat replays as
// no-ops.
type GatewayCallback struct {
	TxRef     string           `json:"tx_ref"`
	Status    string           `json:"status"`
	Amount    float64          `json:"amount"`
	Currency  string           `json:"currency"`
	Reference string           `json:"reference"`
	Customer  CallbackCustomer `json:"customer"`
	CreatedAt string           `json:"created_at,omitempty"`
	UpdatedAt string           `json:"updated_at,omitempty"`
}
