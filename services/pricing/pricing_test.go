package pricing

import (
	"math"
	"testing"
	"time"

	"maravi/models"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func activePromo(id string, dt models.DiscountType, discount float64, start time.Time, productIDs ...string) models.Promotion {
	return models.Promotion{
		ID:           id,
		Discount:     discount,
		DiscountType: dt,
		ProductIDs:   productIDs,
		StartDate:    start,
		EndDate:      now.Add(24 * time.Hour),
		Status:       models.PromotionActive,
	}
}

func TestPromotionPrice_Percentage(t *testing.T) {
	p := activePromo("p1", models.DiscountPercentage, 10, now.Add(-time.Hour), "item1")
	got := PromotionPrice(1000, &p)
	if got != 900 {
		t.Errorf("Expected 900, got %.2f", got)
	}
}

func TestPromotionPrice_Fixed(t *testing.T) {
	p := activePromo("p1", models.DiscountFixed, 150, now.Add(-time.Hour), "item1")
	got := PromotionPrice(1000, &p)
	if got != 850 {
		t.Errorf("Expected 850, got %.2f", got)
	}
}

func TestPromotionPrice_ClampsToZero(t *testing.T) {
	over := activePromo("p1", models.DiscountPercentage, 120, now.Add(-time.Hour), "item1")
	if got := PromotionPrice(1000, &over); got != 0 {
		t.Errorf("Expected discount over 100%% to clamp to 0, got %.2f", got)
	}
	fixed := activePromo("p2", models.DiscountFixed, 1500, now.Add(-time.Hour), "item1")
	if got := PromotionPrice(1000, &fixed); got != 0 {
		t.Errorf("Expected oversized fixed discount to clamp to 0, got %.2f", got)
	}
}

func TestWithTransactionFee_RoundTrip(t *testing.T) {
	for _, rate := range []float64{0.01, 0.03, 0.05, 0.1, 0.25} {
		cfg := FeeConfig{IncludeTransactionFee: true, TransactionFeeRate: rate}
		priced := WithTransactionFee(1000, cfg)
		net := priced * (1 - rate)
		if math.Abs(net-1000) > 1e-9 {
			t.Errorf("rate %.2f: seller nets %.6f, expected 1000", rate, net)
		}
	}
}

func TestWithTransactionFee_DefaultsRate(t *testing.T) {
	cfg := FeeConfig{IncludeTransactionFee: true}
	got := WithTransactionFee(970, cfg)
	want := 970 / (1 - DefaultTransactionFeeRate)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected default rate 0.03 to apply, got %.6f want %.6f", got, want)
	}
}

func TestWithTransactionFee_Disabled(t *testing.T) {
	if got := WithTransactionFee(1000, FeeConfig{}); got != 1000 {
		t.Errorf("Expected price unchanged when fee not included, got %.2f", got)
	}
}

func TestResolvePromotion_MostRecentStartWins(t *testing.T) {
	older := activePromo("old", models.DiscountPercentage, 5, now.Add(-48*time.Hour), "item1")
	newer := activePromo("new", models.DiscountPercentage, 10, now.Add(-1*time.Hour), "item1")
	got := ResolvePromotion("item1", models.ItemKindProduct, []models.Promotion{older, newer}, now)
	if got == nil || got.ID != "new" {
		t.Fatalf("Expected most recently started promotion, got %+v", got)
	}
}

func TestResolvePromotion_TieBreaksByID(t *testing.T) {
	start := now.Add(-time.Hour)
	a := activePromo("a", models.DiscountPercentage, 5, start, "item1")
	b := activePromo("b", models.DiscountPercentage, 10, start, "item1")
	got := ResolvePromotion("item1", models.ItemKindProduct, []models.Promotion{b, a}, now)
	if got == nil || got.ID != "b" {
		t.Fatalf("Expected deterministic tie-break on ID, got %+v", got)
	}
}

func TestResolvePromotion_SkipsInactiveExpiredAndUnrelated(t *testing.T) {
	inactive := activePromo("i", models.DiscountPercentage, 10, now.Add(-time.Hour), "item1")
	inactive.Status = models.PromotionInactive
	expired := activePromo("e", models.DiscountPercentage, 10, now.Add(-72*time.Hour), "item1")
	expired.EndDate = now.Add(-48 * time.Hour)
	other := activePromo("o", models.DiscountPercentage, 10, now.Add(-time.Hour), "item2")

	got := ResolvePromotion("item1", models.ItemKindProduct, []models.Promotion{inactive, expired, other}, now)
	if got != nil {
		t.Errorf("Expected no promotion, got %+v", got)
	}
	if got := ResolvePromotion("item1", models.ItemKindProduct, nil, now); got != nil {
		t.Errorf("Expected nil promotion for empty list, got %+v", got)
	}
}

func TestQuoteItem_FinalNeverExceedsEffective(t *testing.T) {
	item := &models.Item{
		ID:   "item1",
		Kind: models.ItemKindProduct,
		Name: "Chitenje",
		Pricing: models.ItemPricing{
			BasePrice:             1000,
			Currency:              "MWK",
			IncludeTransactionFee: true,
		},
	}
	promo := activePromo("p1", models.DiscountPercentage, 10, now.Add(-time.Hour), "item1")

	q := QuoteItem(item, []models.Promotion{promo}, now)
	if q.Promotion == nil {
		t.Fatal("Expected promotion to resolve")
	}
	if q.FinalPrice > q.EffectivePrice {
		t.Errorf("Final price %.2f exceeds effective price %.2f", q.FinalPrice, q.EffectivePrice)
	}
	// 900 grossed up by 3%.
	want := math.Round(900/0.97*100) / 100
	if q.FinalPrice != want {
		t.Errorf("Expected final price %.2f, got %.2f", want, q.FinalPrice)
	}
}

func TestQuoteItem_NoPromotion(t *testing.T) {
	item := &models.Item{
		ID:      "item1",
		Kind:    models.ItemKindProduct,
		Name:    "Chitenje",
		Pricing: models.ItemPricing{BasePrice: 500, Currency: "MWK"},
	}
	q := QuoteItem(item, nil, now)
	if q.EffectivePrice != 500 || q.FinalPrice != 500 {
		t.Errorf("Expected both prices 500, got effective %.2f final %.2f", q.EffectivePrice, q.FinalPrice)
	}
	if q.Promotion != nil {
		t.Errorf("Expected no promotion, got %+v", q.Promotion)
	}
}
