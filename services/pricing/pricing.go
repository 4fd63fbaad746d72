package pricing

import (
	"time"

	"maravi/models"
	"maravi/utils"
)

// DefaultTransactionFeeRate is applied when an item opts into fee-inclusive
// pricing without configuring its own rate.
const DefaultTransactionFeeRate = 0.03

// FeeConfig controls fee-inclusive pricing. When enabled, the listed price is
// grossed up so the seller nets exactly the base price after the payment
// processor deducts its cut.
type FeeConfig struct {
	IncludeTransactionFee bool
	TransactionFeeRate    float64
}

// Quote is the priced view of one item. EffectivePrice ignores promotions so
// the UI can render a strikethrough reference price next to FinalPrice.
type Quote struct {
	BasePrice      float64
	EffectivePrice float64
	FinalPrice     float64
	Promotion      *models.Promotion
}

// ResolvePromotion selects the single promotion to apply to an item: ACTIVE,
// within its date window, referencing the item, most recently started.
// Ties on start date fall back to the higher ID so the choice is stable.
// Returns nil when nothing applies; an empty promotion list is not an error.
func ResolvePromotion(itemID string, kind models.ItemKind, promos []models.Promotion, now time.Time) *models.Promotion {
	var best *models.Promotion
	for i := range promos {
		p := &promos[i]
		if !p.ActiveAt(now) || !p.AppliesTo(itemID, kind) {
			continue
		}
		if best == nil ||
			p.StartDate.After(best.StartDate) ||
			(p.StartDate.Equal(best.StartDate) && p.ID > best.ID) {
			best = p
		}
	}
	return best
}

// PromotionPrice applies a promotion to a base price. Discounts at or above
// 100% (and negative results) clamp to zero.
func PromotionPrice(basePrice float64, promo *models.Promotion) float64 {
	if promo == nil {
		return basePrice
	}
	var price float64
	switch promo.DiscountType {
	case models.DiscountFixed:
		price = basePrice - promo.Discount
	default:
		price = basePrice * (1 - promo.Discount/100)
	}
	if price < 0 {
		return 0
	}
	return price
}

// WithTransactionFee grosses a price up by the processor fee so the seller
// nets the input amount: price / (1 - rate).
func WithTransactionFee(price float64, cfg FeeConfig) float64 {
	if !cfg.IncludeTransactionFee {
		return price
	}
	rate := cfg.TransactionFeeRate
	if rate <= 0 || rate >= 1 {
		rate = DefaultTransactionFeeRate
	}
	return price / (1 - rate)
}

// QuoteItem computes both prices for an item, in fixed order: promotion
// resolution, promotion price, then fee inclusion on each.
func QuoteItem(item *models.Item, promos []models.Promotion, now time.Time) Quote {
	cfg := FeeConfig{
		IncludeTransactionFee: item.Pricing.IncludeTransactionFee,
		TransactionFeeRate:    item.Pricing.TransactionFeeRate,
	}
	base := item.Pricing.BasePrice
	promo := ResolvePromotion(item.ID, item.Kind, promos, now)

	effective := utils.RoundMoney(WithTransactionFee(base, cfg))
	final := effective
	if promo != nil {
		final = utils.RoundMoney(WithTransactionFee(PromotionPrice(base, promo), cfg))
	}
	return Quote{
		BasePrice:      base,
		EffectivePrice: effective,
		FinalPrice:     final,
		Promotion:      promo,
	}
}
