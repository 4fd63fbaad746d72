package models

// DeliveryMethod selects fulfillment: customer pickup or courier delivery.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "PICKUP"
	DeliveryMethodDelivery DeliveryMethod = "DELIVERY"
)

// DeliveryPricing is a provider's tiered price table. Resolution precedence
// is district > region > general > 0, exact key lookup only.
type DeliveryPricing struct {
	GeneralPrice    float64            `bson:"general_price,omitempty" json:"generalPrice,omitempty"`
	RegionPricing   map[string]float64 `bson:"region_pricing,omitempty" json:"regionPricing,omitempty"`
	DistrictPricing map[string]float64 `bson:"district_pricing,omitempty" json:"districtPricing,omitempty"`
}

// DeliveryProvider is a courier with its price table.
type DeliveryProvider struct {
	ID       string          `bson:"id" json:"id"`
	Name     string          `bson:"name" json:"name"`
	Pricing  DeliveryPricing `bson:"pricing" json:"pricing"`
	Currency string          `bson:"currency" json:"currency"`
}

// Address is a customer delivery destination.
type Address struct {
	Street   string `bson:"street,omitempty" json:"street,omitempty"`
	City     string `bson:"city,omitempty" json:"city,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
	Region   string `bson:"region,omitempty" json:"region,omitempty"`
}
