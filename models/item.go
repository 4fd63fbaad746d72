package models

import "fmt"

// ItemKind tags the catalog item variant.
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindService ItemKind = "service"
)

// ItemPricing holds the fee configuration attached to a catalog item.
type ItemPricing struct {
	BasePrice             float64 `bson:"base_price" json:"basePrice"`
	Currency              string  `bson:"currency" json:"currency"`
	IncludeTransactionFee bool    `bson:"include_transaction_fee" json:"includeTransactionFee"`
	TransactionFeeRate    float64 `bson:"transaction_fee_rate,omitempty" json:"transactionFeeRate,omitempty"`
}

// ServiceDetails carries the fields that only exist on bookable services.
type ServiceDetails struct {
	BookingFee          float64 `bson:"booking_fee,omitempty" json:"bookingFee,omitempty"`
	TotalFee            float64 `bson:"total_fee,omitempty" json:"totalFee,omitempty"`
	AllowPartialPayment bool    `bson:"allow_partial_payment" json:"allowPartialPayment"`
	DurationMinutes     int     `bson:"duration_minutes" json:"durationMinutes"`
}

// Item is a catalog entry: a physical product or a bookable service.
// Service-specific fields live behind the Service pointer so the variant is
// enforced at construction rather than by runtime field-presence checks.
// Orders and bookings snapshot pricing at creation time; later catalog edits
// never change historical money.
type Item struct {
	ID      string          `bson:"id" json:"id"`
	Kind    ItemKind        `bson:"kind" json:"kind"`
	Name    string          `bson:"name" json:"name"`
	SKU     string          `bson:"sku,omitempty" json:"sku,omitempty"`
	Pricing ItemPricing     `bson:"pricing" json:"pricing"`
	Service *ServiceDetails `bson:"service,omitempty" json:"service,omitempty"`
}

// NewProductItem builds a product variant.
func NewProductItem(id, name, sku string, pricing ItemPricing) (*Item, error) {
	if id == "" || name == "" {
		return nil, fmt.Errorf("product requires id and name")
	}
	if pricing.BasePrice < 0 {
		return nil, fmt.Errorf("product %s: base price must not be negative", id)
	}
	return &Item{ID: id, Kind: ItemKindProduct, Name: name, SKU: sku, Pricing: pricing}, nil
}

// NewServiceItem builds a service variant with its required details.
func NewServiceItem(id, name string, pricing ItemPricing, details ServiceDetails) (*Item, error) {
	if id == "" || name == "" {
		return nil, fmt.Errorf("service requires id and name")
	}
	if details.DurationMinutes <= 0 {
		return nil, fmt.Errorf("service %s: duration must be positive", id)
	}
	if details.AllowPartialPayment && details.BookingFee <= 0 {
		return nil, fmt.Errorf("service %s: partial payment requires a booking fee", id)
	}
	return &Item{ID: id, Kind: ItemKindService, Name: name, Pricing: pricing, Service: &details}, nil
}

// IsService reports whether the item is a well-formed service variant.
func (i *Item) IsService() bool {
	return i.Kind == ItemKindService && i.Service != nil
}
