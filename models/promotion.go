package models

import "time"

// DiscountType distinguishes percentage from fixed-amount promotions.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromotionStatus gates whether a promotion may apply at all.
type PromotionStatus string

const (
	PromotionActive   PromotionStatus = "ACTIVE"
	PromotionInactive PromotionStatus = "INACTIVE"
)

// Promotion discounts a set of products or services within a date window.
type Promotion struct {
	ID           string          `bson:"id" json:"id"`
	Name         string          `bson:"name,omitempty" json:"name,omitempty"`
	Discount     float64         `bson:"discount" json:"discount"`
	DiscountType DiscountType    `bson:"discount_type" json:"discountType"`
	ProductIDs   []string        `bson:"product_ids,omitempty" json:"productIds,omitempty"`
	ServiceIDs   []string        `bson:"service_ids,omitempty" json:"serviceIds,omitempty"`
	StartDate    time.Time       `bson:"start_date" json:"startDate"`
	EndDate      time.Time       `bson:"end_date" json:"endDate"`
	Status       PromotionStatus `bson:"status" json:"status"`
}

// ActiveAt reports whether the promotion may apply at the given instant.
func (p *Promotion) ActiveAt(now time.Time) bool {
	if p.Status != PromotionActive {
		return false
	}
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// AppliesTo reports whether the promotion references the given item.
func (p *Promotion) AppliesTo(itemID string, kind ItemKind) bool {
	ids := p.ProductIDs
	if kind == ItemKindService {
		ids = p.ServiceIDs
	}
	for _, id := range ids {
		if id == itemID {
			return true
		}
	}
	return false
}
