package delivery

import "maravi/models"

// Destination is the customer's delivery target for cost resolution.
type Destination struct {
	District string
	Region   string
}

// Resolve returns the shipping cost for a fulfillment selection.
// PICKUP costs nothing and skips the provider entirely. DELIVERY resolves
// district > region > general > 0 by exact key lookup. A missing provider or
// destination yields 0 rather than an error; validating that a provider was
// actually chosen is the caller's job.
func Resolve(provider *models.DeliveryProvider, dest Destination, method models.DeliveryMethod) float64 {
	if method != models.DeliveryMethodDelivery {
		return 0
	}
	if provider == nil {
		return 0
	}
	if dest.District != "" {
		if price, ok := provider.Pricing.DistrictPricing[dest.District]; ok {
			return price
		}
	}
	if dest.Region != "" {
		if price, ok := provider.Pricing.RegionPricing[dest.Region]; ok {
			return price
		}
	}
	return provider.Pricing.GeneralPrice
}
