package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"maravi/models"

	"go.uber.org/zap"
)

type fakeCatalog struct {
	items map[string]*models.Item
}

func (f *fakeCatalog) GetItem(id string) (*models.Item, error) { return f.items[id], nil }

func (f *fakeCatalog) ActivePromotionsFor(itemID string, kind models.ItemKind) ([]models.Promotion, error) {
	return nil, nil
}

func (f *fakeCatalog) GetDeliveryProvider(id string) (*models.DeliveryProvider, error) {
	return nil, nil
}

type fakeBookings struct {
	slots    map[string]*models.ServiceSlot
	created  []*models.Booking
	holdErr  error
	held     []string
	released []string
}

func (f *fakeBookings) Create(b *models.Booking) error { f.created = append(f.created, b); return nil }

func (f *fakeBookings) GetByID(id string) (*models.Booking, error) {
	for _, b := range f.created {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookings) MarkPaid(id string, p models.PaymentDetails) error { return nil }

func (f *fakeBookings) UpdateStatus(id string, from, to models.Status) error {
	for _, b := range f.created {
		if b.ID == id && b.Status == from {
			b.Status = to
			return nil
		}
	}
	return errors.New("stale status")
}

func (f *fakeBookings) GetSlot(id string) (*models.ServiceSlot, error) { return f.slots[id], nil }

func (f *fakeBookings) HoldSlot(slotID string) error {
	if f.holdErr != nil {
		return f.holdErr
	}
	f.held = append(f.held, slotID)
	return nil
}

func (f *fakeBookings) ReleaseSlot(slotID string) error {
	f.released = append(f.released, slotID)
	return nil
}

type fakeSessions struct {
	created   []*models.PaymentSession
	createErr error
}

func (f *fakeSessions) Create(s *models.PaymentSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSessions) GetByTxRef(txRef string) (*models.PaymentSession, error) { return nil, nil }

func (f *fakeSessions) UpdateStatus(txRef, status string) error { return nil }

type fakeGateway struct {
	err      error
	requests []models.SessionRequest
}

func (f *fakeGateway) CreateSession(ctx context.Context, req models.SessionRequest) (*models.SessionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &models.SessionResult{
		CheckoutURL:   "https://pay.example/session",
		TxRef:         "TX-booking-test",
		TransactionID: "trans-1",
	}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, session *models.PaymentSession) (*models.GatewayCallback, error) {
	return nil, errors.New("not implemented")
}

func testService(allowPartial bool) (*DefaultBookingService, *fakeBookings, *fakeSessions, *fakeGateway) {
	svcItem := &models.Item{
		ID:   "svc1",
		Kind: models.ItemKindService,
		Name: "Braiding",
		Pricing: models.ItemPricing{
			BasePrice: 5000,
			Currency:  "MWK",
		},
		Service: &models.ServiceDetails{
			BookingFee:          1000,
			TotalFee:            5000,
			AllowPartialPayment: allowPartial,
			DurationMinutes:     120,
		},
	}
	start := time.Now().Add(48 * time.Hour)
	bookings := &fakeBookings{
		slots: map[string]*models.ServiceSlot{
			"slot1": {ID: "slot1", ServiceID: "svc1", StartTime: start, EndTime: start.Add(2 * time.Hour), Capacity: 1},
		},
	}
	sessions := &fakeSessions{}
	gateway := &fakeGateway{}
	svc := &DefaultBookingService{
		Catalog:  &fakeCatalog{items: map[string]*models.Item{"svc1": svcItem}},
		Bookings: bookings,
		Sessions: sessions,
		Gateway:  gateway,
		TaxRate:  16,
		Currency: "MWK",
		Logger:   zap.NewNop(),
	}
	return svc, bookings, sessions, gateway
}

func testInput(partial bool) models.BookingInput {
	return models.BookingInput{
		ServiceID:      "svc1",
		SlotID:         "slot1",
		PartialPayment: partial,
		CustomerName:   "Chisomo Phiri",
		CustomerEmail:  "chisomo@example.com",
		CustomerPhone:  "+265888000222",
	}
}

func TestBookPartialPaymentPricing(t *testing.T) {
	svc, bookings, sessions, gateway := testService(true)

	result, err := svc.Book(context.Background(), testInput(true))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	bp := result.Booking.Pricing
	if !bp.IsPartialPayment {
		t.Fatal("expected partial payment")
	}
	if bp.Tax != 160 {
		t.Errorf("expected tax 160 on the booking fee, got %v", bp.Tax)
	}
	if bp.Total != 1160 {
		t.Errorf("expected total 1160, got %v", bp.Total)
	}
	if bp.RemainingBalance != 4800 {
		t.Errorf("expected remaining balance 4800, got %v", bp.RemainingBalance)
	}
	if result.Booking.Status != models.StatusPending {
		t.Errorf("expected PENDING, got %s", result.Booking.Status)
	}
	if len(bookings.held) != 1 {
		t.Errorf("expected slot held once, got %v", bookings.held)
	}
	if len(sessions.created) != 1 || sessions.created[0].BookingID != result.Booking.ID {
		t.Errorf("session not linked to booking")
	}
	if gateway.requests[0].Amount != 1160 {
		t.Errorf("gateway must be asked for the partial total, got %v", gateway.requests[0].Amount)
	}
}

func TestBookFullPaymentPricing(t *testing.T) {
	svc, _, _, gateway := testService(true)

	result, err := svc.Book(context.Background(), testInput(false))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	bp := result.Booking.Pricing
	if bp.IsPartialPayment {
		t.Fatal("expected full payment")
	}
	if bp.Tax != 800 {
		t.Errorf("expected tax 800, got %v", bp.Tax)
	}
	if bp.Total != 5800 {
		t.Errorf("expected total 5800, got %v", bp.Total)
	}
	if bp.RemainingBalance != 0 {
		t.Errorf("full payment must leave no remaining balance, got %v", bp.RemainingBalance)
	}
	if gateway.requests[0].Amount != 5800 {
		t.Errorf("gateway must be asked for the full total, got %v", gateway.requests[0].Amount)
	}
}

func TestBookPartialNotAllowedFallsBackToFull(t *testing.T) {
	svc, _, _, _ := testService(false)

	result, err := svc.Book(context.Background(), testInput(true))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	bp := result.Booking.Pricing
	if bp.IsPartialPayment {
		t.Error("partial payment must be denied when the service disallows it")
	}
	if bp.Total != 5800 {
		t.Errorf("expected full total 5800, got %v", bp.Total)
	}
}

func TestBookSlotUnavailable(t *testing.T) {
	svc, bookings, sessions, _ := testService(true)
	bookings.holdErr = ErrSlotUnavailable

	_, err := svc.Book(context.Background(), testInput(false))
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if len(bookings.created) != 0 {
		t.Errorf("no booking may persist without capacity")
	}
	if len(sessions.created) != 0 {
		t.Errorf("no session may open without capacity")
	}
}

func TestBookRejectsSlotMismatchAndPast(t *testing.T) {
	svc, bookings, _, _ := testService(true)
	bookings.slots["other"] = &models.ServiceSlot{
		ID: "other", ServiceID: "someone-else",
		StartTime: time.Now().Add(24 * time.Hour), EndTime: time.Now().Add(25 * time.Hour), Capacity: 1,
	}
	bookings.slots["past"] = &models.ServiceSlot{
		ID: "past", ServiceID: "svc1",
		StartTime: time.Now().Add(-2 * time.Hour), EndTime: time.Now().Add(-1 * time.Hour), Capacity: 1,
	}

	for _, slotID := range []string{"other", "past", "missing"} {
		input := testInput(false)
		input.SlotID = slotID
		_, err := svc.Book(context.Background(), input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("slot %s: expected ValidationError, got %v", slotID, err)
		}
	}
	if len(bookings.held) != 0 {
		t.Errorf("rejected bookings must not hold capacity, got %v", bookings.held)
	}
}

func TestBookGatewayFailureReleasesHeldSlot(t *testing.T) {
	svc, bookings, sessions, gateway := testService(true)
	gateway.err = errors.New("gateway timeout")

	_, err := svc.Book(context.Background(), testInput(false))
	if err == nil {
		t.Fatal("expected gateway error")
	}

	// No session exists, so no callback could ever release the capacity;
	// the hold must be undone here.
	if len(bookings.released) != 1 || bookings.released[0] != "slot1" {
		t.Errorf("slot must be released on gateway failure, got %v", bookings.released)
	}
	if len(bookings.created) != 1 || bookings.created[0].Status != models.StatusCanceled {
		t.Errorf("unpayable booking must be canceled, got %+v", bookings.created)
	}
	if len(sessions.created) != 0 {
		t.Errorf("no session may persist on gateway failure")
	}
}

func TestBookSessionPersistFailureReleasesHeldSlot(t *testing.T) {
	svc, bookings, sessions, _ := testService(true)
	sessions.createErr = errors.New("write failed")

	_, err := svc.Book(context.Background(), testInput(false))
	if err == nil {
		t.Fatal("expected persistence error")
	}

	if len(bookings.released) != 1 || bookings.released[0] != "slot1" {
		t.Errorf("slot must be released when the session cannot be stored, got %v", bookings.released)
	}
	if bookings.created[0].Status != models.StatusCanceled {
		t.Errorf("unpayable booking must be canceled, got %s", bookings.created[0].Status)
	}
}

func TestBookRejectsProducts(t *testing.T) {
	svc, _, _, _ := testService(true)
	svc.Catalog = &fakeCatalog{items: map[string]*models.Item{
		"svc1": {ID: "svc1", Kind: models.ItemKindProduct, Name: "Not a service",
			Pricing: models.ItemPricing{BasePrice: 100}},
	}}

	_, err := svc.Book(context.Background(), testInput(false))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for a product item, got %v", err)
	}
}
