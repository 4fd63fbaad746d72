package delivery

import (
	"testing"

	"maravi/models"
)

func provider() *models.DeliveryProvider {
	return &models.DeliveryProvider{
		ID:   "prov1",
		Name: "Speedy Couriers",
		Pricing: models.DeliveryPricing{
			GeneralPrice:    1000,
			RegionPricing:   map[string]float64{"Southern": 2500},
			DistrictPricing: map[string]float64{"Blantyre": 2000},
		},
		Currency: "MWK",
	}
}

func TestResolve_DistrictWins(t *testing.T) {
	got := Resolve(provider(), Destination{District: "Blantyre", Region: "Southern"}, models.DeliveryMethodDelivery)
	if got != 2000 {
		t.Errorf("Expected district price 2000, got %.2f", got)
	}
}

func TestResolve_FallsBackToRegion(t *testing.T) {
	got := Resolve(provider(), Destination{District: "Zomba", Region: "Southern"}, models.DeliveryMethodDelivery)
	if got != 2500 {
		t.Errorf("Expected region price 2500, got %.2f", got)
	}
}

func TestResolve_FallsBackToGeneral(t *testing.T) {
	got := Resolve(provider(), Destination{District: "Mzimba", Region: "Northern"}, models.DeliveryMethodDelivery)
	if got != 1000 {
		t.Errorf("Expected general price 1000, got %.2f", got)
	}
}

func TestResolve_NoPricingConfigured(t *testing.T) {
	p := &models.DeliveryProvider{ID: "bare"}
	if got := Resolve(p, Destination{District: "Blantyre"}, models.DeliveryMethodDelivery); got != 0 {
		t.Errorf("Expected 0 for provider without pricing, got %.2f", got)
	}
}

func TestResolve_Pickup(t *testing.T) {
	// Pickup never consults the provider, even when one is set.
	if got := Resolve(provider(), Destination{District: "Blantyre"}, models.DeliveryMethodPickup); got != 0 {
		t.Errorf("Expected pickup cost 0, got %.2f", got)
	}
	if got := Resolve(nil, Destination{}, models.DeliveryMethodPickup); got != 0 {
		t.Errorf("Expected pickup cost 0 without provider, got %.2f", got)
	}
}

func TestResolve_MissingProvider(t *testing.T) {
	if got := Resolve(nil, Destination{District: "Blantyre"}, models.DeliveryMethodDelivery); got != 0 {
		t.Errorf("Expected 0 for missing provider, got %.2f", got)
	}
}
