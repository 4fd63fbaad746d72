package models

import "time"

// ReservationStatus tracks the inventory hold for an order. Reservation is
// attempted synchronously at checkout and retried by the background worker,
// so the order document carries the current state of that hold.
type ReservationStatus string

const (
	ReservationUnreserved ReservationStatus = "UNRESERVED"
	ReservationReserved   ReservationStatus = "RESERVED"
	ReservationFailed     ReservationStatus = "FAILED"
	ReservationConfirmed  ReservationStatus = "CONFIRMED"
	ReservationReleased   ReservationStatus = "RELEASED"
)

// OrderItem is a priced snapshot of one cart line. Unit price is copied from
// the pricing engine at checkout time and never re-read from the catalog.
type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"productId"`
	ProductName string  `bson:"product_name" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unitPrice"`
	Subtotal    float64 `bson:"subtotal" json:"subtotal"`
	SKU         string  `bson:"sku,omitempty" json:"sku,omitempty"`
}

// OrderPricing aggregates the money components of an order.
// Invariant: Total == Subtotal + Shipping + Tax - Discount at minor-unit precision.
type OrderPricing struct {
	Subtotal float64 `bson:"subtotal" json:"subtotal"`
	Tax      float64 `bson:"tax" json:"tax"`
	Shipping float64 `bson:"shipping" json:"shipping"`
	Discount float64 `bson:"discount" json:"discount"`
	Total    float64 `bson:"total" json:"total"`
	Currency string  `bson:"currency" json:"currency"`
}

// OrderDelivery records the fulfillment selection made at checkout.
type OrderDelivery struct {
	Method     DeliveryMethod `bson:"method" json:"method"`
	ProviderID string         `bson:"provider_id,omitempty" json:"providerId,omitempty"`
	Address    Address        `bson:"address,omitempty" json:"address,omitempty"`
}

// PaymentDetails is attached by the reconciler once a payment is verified.
type PaymentDetails struct {
	PaymentID     string    `bson:"payment_id" json:"paymentId"`
	PaymentMethod string    `bson:"payment_method" json:"paymentMethod"`
	PaidAt        time.Time `bson:"paid_at" json:"paidAt"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
}

// Order is a persisted customer order. It is created by the checkout
// orchestrator in PENDING status and mutated only by the payment reconciler
// (status and payment) or admin status updates.
type Order struct {
	ID                string            `bson:"id" json:"id"`
	OrderNumber       string            `bson:"order_number" json:"orderNumber"`
	CustomerName      string            `bson:"customer_name" json:"customerName"`
	CustomerEmail     string            `bson:"customer_email" json:"customerEmail"`
	CustomerPhone     string            `bson:"customer_phone" json:"customerPhone"`
	Status            Status            `bson:"status" json:"status"`
	Items             []OrderItem       `bson:"items" json:"items"`
	Pricing           OrderPricing      `bson:"pricing" json:"pricing"`
	Delivery          OrderDelivery     `bson:"delivery" json:"delivery"`
	Payment           *PaymentDetails   `bson:"payment,omitempty" json:"payment,omitempty"`
	ReservationStatus ReservationStatus `bson:"reservation_status" json:"reservationStatus"`
	CreatedAt         time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time         `bson:"updated_at" json:"updatedAt"`
}

// ReservationLine is the quantity of one SKU an order needs held.
type ReservationLine struct {
	SKU      string `bson:"sku" json:"sku"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// ReservationLines derives the stock lines an order needs reserved.
func (o *Order) ReservationLines() []ReservationLine {
	lines := make([]ReservationLine, 0, len(o.Items))
	for _, it := range o.Items {
		if it.SKU == "" {
			continue
		}
		lines = append(lines, ReservationLine{SKU: it.SKU, Quantity: it.Quantity})
	}
	return lines
}
