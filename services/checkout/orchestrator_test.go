package checkout

import (
	"context"
	"errors"
	"testing"

	"maravi/models"
	"maravi/services/payment"

	"go.uber.org/zap"
)

type fakeCatalog struct {
	items     map[string]*models.Item
	providers map[string]*models.DeliveryProvider
}

func (f *fakeCatalog) GetItem(id string) (*models.Item, error) {
	return f.items[id], nil
}

func (f *fakeCatalog) ActivePromotionsFor(itemID string, kind models.ItemKind) ([]models.Promotion, error) {
	return nil, nil
}

func (f *fakeCatalog) GetDeliveryProvider(id string) (*models.DeliveryProvider, error) {
	return f.providers[id], nil
}

type fakeOrders struct {
	created      []*models.Order
	reservations map[string]models.ReservationStatus
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{reservations: make(map[string]models.ReservationStatus)}
}

func (f *fakeOrders) Create(order *models.Order) error { f.created = append(f.created, order); return nil }

func (f *fakeOrders) GetByID(id string) (*models.Order, error) {
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) MarkPaid(id string, p models.PaymentDetails) error { return nil }

func (f *fakeOrders) UpdateStatus(id string, from, to models.Status) error { return nil }

func (f *fakeOrders) SetReservationStatus(id string, status models.ReservationStatus) error {
	f.reservations[id] = status
	return nil
}

type fakeSessions struct {
	created []*models.PaymentSession
}

func (f *fakeSessions) Create(s *models.PaymentSession) error { f.created = append(f.created, s); return nil }

func (f *fakeSessions) GetByTxRef(txRef string) (*models.PaymentSession, error) { return nil, nil }

func (f *fakeSessions) UpdateStatus(txRef, status string) error { return nil }

type fakeInventory struct {
	reserveErr error
	reserved   map[string][]models.ReservationLine
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{reserved: make(map[string][]models.ReservationLine)}
}

func (f *fakeInventory) Reserve(ctx context.Context, orderID string, lines []models.ReservationLine) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	f.reserved[orderID] = lines
	return nil
}

func (f *fakeInventory) AlreadyReserved(ctx context.Context, orderID string, lineCount int) (bool, error) {
	return false, nil
}

func (f *fakeInventory) Confirm(ctx context.Context, orderID string) error { return nil }

func (f *fakeInventory) Release(ctx context.Context, orderID string) error { return nil }

type fakeGateway struct {
	err      error
	sessions []models.SessionRequest
}

func (f *fakeGateway) CreateSession(ctx context.Context, req models.SessionRequest) (*models.SessionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sessions = append(f.sessions, req)
	return &models.SessionResult{
		CheckoutURL:   "https://pay.example/session",
		TxRef:         "TX-checkout-test",
		TransactionID: "trans-1",
	}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, session *models.PaymentSession) (*models.GatewayCallback, error) {
	return nil, errors.New("not implemented")
}

type fakeScheduler struct {
	enqueued []string
}

func (f *fakeScheduler) EnqueueReservationRetry(orderID string) error {
	f.enqueued = append(f.enqueued, orderID)
	return nil
}

func testService() (*DefaultCheckoutService, *fakeCatalog, *fakeOrders, *fakeSessions, *fakeInventory, *fakeGateway, *fakeScheduler) {
	catalog := &fakeCatalog{
		items: map[string]*models.Item{
			"p1": {ID: "p1", Kind: models.ItemKindProduct, Name: "Chitenje", SKU: "SKU-1",
				Pricing: models.ItemPricing{BasePrice: 1000, Currency: "MWK"}},
		},
		providers: map[string]*models.DeliveryProvider{
			"prov1": {ID: "prov1", Name: "Courier", Pricing: models.DeliveryPricing{
				GeneralPrice:    1000,
				DistrictPricing: map[string]float64{"Blantyre": 2000},
			}},
		},
	}
	orders := newFakeOrders()
	sessions := &fakeSessions{}
	inventory := newFakeInventory()
	gateway := &fakeGateway{}
	scheduler := &fakeScheduler{}
	svc := &DefaultCheckoutService{
		Catalog:   catalog,
		Orders:    orders,
		Sessions:  sessions,
		Inventory: inventory,
		Gateway:   gateway,
		Retry:     scheduler,
		TaxRate:   16.5,
		Currency:  "MWK",
		Logger:    zap.NewNop(),
	}
	return svc, catalog, orders, sessions, inventory, gateway, scheduler
}

func pickupInput() models.CheckoutInput {
	return models.CheckoutInput{
		CustomerName:  "Thoko Banda",
		CustomerEmail: "thoko@example.com",
		CustomerPhone: "+265999000111",
		Lines:         []models.CartLine{{ItemID: "p1", Quantity: 2}},
		Delivery:      models.DeliverySelection{Method: models.DeliveryMethodPickup},
	}
}

func TestCheckoutPickupTotals(t *testing.T) {
	svc, _, orders, sessions, inventory, _, _ := testService()

	result, err := svc.Checkout(context.Background(), pickupInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if len(orders.created) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders.created))
	}
	order := orders.created[0]
	if order.Status != models.StatusPending {
		t.Errorf("expected PENDING, got %s", order.Status)
	}
	if order.Pricing.Subtotal != 2000 {
		t.Errorf("expected subtotal 2000, got %v", order.Pricing.Subtotal)
	}
	if order.Pricing.Shipping != 0 {
		t.Errorf("pickup must have zero shipping, got %v", order.Pricing.Shipping)
	}
	if order.Pricing.Tax != 330 {
		t.Errorf("expected tax 330, got %v", order.Pricing.Tax)
	}
	if order.Pricing.Total != 2330 {
		t.Errorf("expected total 2330, got %v", order.Pricing.Total)
	}

	want := order.Pricing.Subtotal + order.Pricing.Shipping + order.Pricing.Tax - order.Pricing.Discount
	if order.Pricing.Total != want {
		t.Errorf("total %v does not reconstruct from components %v", order.Pricing.Total, want)
	}

	if len(inventory.reserved[order.ID]) != 1 {
		t.Errorf("expected stock reserved for order")
	}
	if orders.reservations[order.ID] != models.ReservationReserved {
		t.Errorf("expected reservation RESERVED, got %s", orders.reservations[order.ID])
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected 1 payment session, got %d", len(sessions.created))
	}
	if sessions.created[0].OrderID != order.ID {
		t.Errorf("session not linked to order")
	}
	if result.TxRef == "" || result.CheckoutURL == "" {
		t.Errorf("result missing gateway fields: %+v", result)
	}
}

func TestCheckoutDeliveryShipping(t *testing.T) {
	svc, _, orders, _, _, _, _ := testService()

	input := pickupInput()
	input.Delivery = models.DeliverySelection{
		Method:     models.DeliveryMethodDelivery,
		ProviderID: "prov1",
		Address:    models.Address{District: "Blantyre", Region: "Southern"},
	}

	if _, err := svc.Checkout(context.Background(), input); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	order := orders.created[0]
	if order.Pricing.Shipping != 2000 {
		t.Errorf("expected district shipping 2000, got %v", order.Pricing.Shipping)
	}
	if order.Pricing.Total != 2000+2000+330 {
		t.Errorf("expected total 4330, got %v", order.Pricing.Total)
	}
}

func TestCheckoutValidationPersistsNothing(t *testing.T) {
	svc, _, orders, sessions, _, _, _ := testService()

	cases := []func(*models.CheckoutInput){
		func(in *models.CheckoutInput) { in.CustomerEmail = "" },
		func(in *models.CheckoutInput) { in.Lines = nil },
		func(in *models.CheckoutInput) { in.Lines[0].Quantity = 0 },
		func(in *models.CheckoutInput) { in.Delivery.Method = "TELEPORT" },
		func(in *models.CheckoutInput) {
			in.Delivery = models.DeliverySelection{Method: models.DeliveryMethodDelivery}
		},
	}
	for i, mutate := range cases {
		input := pickupInput()
		mutate(&input)
		_, err := svc.Checkout(context.Background(), input)
		if err == nil {
			t.Errorf("case %d: expected validation error", i)
			continue
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("case %d: expected ValidationError, got %T", i, err)
		}
	}
	if len(orders.created) != 0 {
		t.Errorf("validation failures must not persist orders, got %d", len(orders.created))
	}
	if len(sessions.created) != 0 {
		t.Errorf("validation failures must not open sessions, got %d", len(sessions.created))
	}
}

func TestCheckoutUnknownItemRejected(t *testing.T) {
	svc, _, orders, _, _, _, _ := testService()

	input := pickupInput()
	input.Lines = []models.CartLine{{ItemID: "missing", Quantity: 1}}

	_, err := svc.Checkout(context.Background(), input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Errorf("unknown item must not persist an order")
	}
}

func TestCheckoutReservationFailureIsNotFatal(t *testing.T) {
	svc, _, orders, sessions, inventory, _, scheduler := testService()
	inventory.reserveErr = errors.New("stock race")

	result, err := svc.Checkout(context.Background(), pickupInput())
	if err != nil {
		t.Fatalf("reservation failure must not fail checkout: %v", err)
	}

	order := orders.created[0]
	if orders.reservations[order.ID] != models.ReservationFailed {
		t.Errorf("expected reservation FAILED, got %s", orders.reservations[order.ID])
	}
	if len(scheduler.enqueued) != 1 || scheduler.enqueued[0] != order.ID {
		t.Errorf("expected a retry enqueued for %s, got %v", order.ID, scheduler.enqueued)
	}
	if len(sessions.created) != 1 {
		t.Errorf("payment session must still open, got %d", len(sessions.created))
	}
	if result.CheckoutURL == "" {
		t.Errorf("customer must still get a checkout URL")
	}
}

func TestCheckoutGatewayFailureLeavesPendingOrder(t *testing.T) {
	svc, _, orders, sessions, _, gateway, _ := testService()
	gateway.err = &payment.UpstreamError{Op: "create session", Err: errors.New("timeout")}

	_, err := svc.Checkout(context.Background(), pickupInput())
	if err == nil {
		t.Fatal("expected gateway error")
	}
	var upErr *payment.UpstreamError
	if !errors.As(err, &upErr) {
		t.Errorf("expected UpstreamError, got %T", err)
	}
	if len(orders.created) != 1 {
		t.Fatalf("order must survive the gateway failure")
	}
	if orders.created[0].Status != models.StatusPending {
		t.Errorf("order must stay PENDING, got %s", orders.created[0].Status)
	}
	if len(sessions.created) != 0 {
		t.Errorf("no session may be persisted on gateway failure")
	}
}
