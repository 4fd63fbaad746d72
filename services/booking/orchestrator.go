package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	bookingRepo "maravi/database/repository/booking"
	"maravi/models"
	"maravi/services/pricing"
	"maravi/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Book validates the selection, atomically takes slot capacity, persists a
// PENDING booking and opens a payment session. Slot capacity is held by a
// single conditional update, so concurrent requests for the last unit
// cannot both succeed.
func (s *DefaultBookingService) Book(ctx context.Context, input models.BookingInput) (*models.BookingResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item, err := s.Catalog.GetItem(input.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service %s: %w", input.ServiceID, err)
	}
	if item == nil || !item.IsService() {
		return nil, NewValidationError(fmt.Sprintf("unknown service %s", input.ServiceID))
	}

	slot, err := s.Bookings.GetSlot(input.SlotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", input.SlotID, err)
	}
	if slot == nil {
		return nil, NewValidationError(fmt.Sprintf("unknown time slot %s", input.SlotID))
	}
	if slot.ServiceID != item.ID {
		return nil, NewValidationError(fmt.Sprintf("slot %s does not belong to service %s", slot.ID, item.ID))
	}
	if !slot.StartTime.After(time.Now()) {
		return nil, NewValidationError("time slot is in the past")
	}

	bp := s.priceBooking(item, input.PartialPayment)

	if err := s.Bookings.HoldSlot(slot.ID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		BookingNumber: newBookingNumber(),
		ServiceID:     item.ID,
		ServiceName:   item.Name,
		SlotID:        slot.ID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Status:        models.StatusPending,
		TimeSlot: models.TimeSlot{
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			DurationMinutes: int(slot.EndTime.Sub(slot.StartTime).Minutes()),
		},
		Pricing: bp,
	}
	if err := s.Bookings.Create(booking); err != nil {
		if relErr := s.Bookings.ReleaseSlot(slot.ID); relErr != nil {
			s.Logger.Error("Failed to release slot after persistence failure",
				zap.String("slotID", slot.ID), zap.Error(relErr))
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	firstName, lastName := splitName(input.CustomerName)
	result, err := s.Gateway.CreateSession(ctx, models.SessionRequest{
		BookingID:     booking.ID,
		Amount:        bp.Total,
		Currency:      s.Currency,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
		FirstName:     firstName,
		LastName:      lastName,
		Description:   fmt.Sprintf("Booking %s (%s)", booking.BookingNumber, item.Name),
		Metadata: map[string]string{
			"bookingId":     booking.ID,
			"bookingNumber": booking.BookingNumber,
		},
	})
	if err != nil {
		// Without a persisted session there is no txRef, so no callback or
		// verification poll could ever release the capacity later. Undo the
		// hold now; the customer retries with a fresh booking.
		s.Logger.Error("Failed to open payment session",
			zap.String("bookingID", booking.ID), zap.Error(err))
		s.abandonBooking(booking)
		return nil, err
	}

	session := &models.PaymentSession{
		TxRef:         result.TxRef,
		TransactionID: result.TransactionID,
		BookingID:     booking.ID,
		Amount:        bp.Total,
		Currency:      s.Currency,
		Status:        models.SessionOpened,
		CheckoutURL:   result.CheckoutURL,
	}
	if err := s.Sessions.Create(session); err != nil {
		s.abandonBooking(booking)
		return nil, fmt.Errorf("failed to persist payment session: %w", err)
	}

	s.Logger.Info("Booking created",
		zap.String("bookingNumber", booking.BookingNumber),
		zap.String("txRef", result.TxRef),
		zap.Float64("total", bp.Total),
		zap.Bool("partial", bp.IsPartialPayment))
	return &models.BookingResult{
		Booking:     booking,
		CheckoutURL: result.CheckoutURL,
		TxRef:       result.TxRef,
	}, nil
}

// priceBooking applies the payment-amount rule: the booking fee when a
// partial payment is requested and allowed, otherwise the full service fee.
// The remaining balance for partial payments is derived here and stored,
// never entered by hand.
func (s *DefaultBookingService) priceBooking(item *models.Item, partial bool) models.BookingPricing {
	svc := item.Service

	totalFee := svc.TotalFee
	if totalFee <= 0 {
		promos, err := s.Catalog.ActivePromotionsFor(item.ID, item.Kind)
		if err != nil {
			s.Logger.Warn("Failed to load promotions for service, pricing without them",
				zap.String("serviceID", item.ID), zap.Error(err))
			promos = nil
		}
		totalFee = pricing.QuoteItem(item, promos, time.Now()).FinalPrice
	}

	isPartial := partial && svc.AllowPartialPayment && svc.BookingFee > 0
	amount := totalFee
	if isPartial {
		amount = svc.BookingFee
	}

	tax := utils.RoundMoney(amount * s.TaxRate / 100)
	bp := models.BookingPricing{
		BasePrice:        item.Pricing.BasePrice,
		BookingFee:       svc.BookingFee,
		TotalFee:         totalFee,
		Tax:              tax,
		Total:            utils.RoundMoney(amount + tax),
		IsPartialPayment: isPartial,
		Currency:         s.Currency,
	}
	if isPartial {
		bp.RemainingBalance = utils.RoundMoney(totalFee - svc.BookingFee + totalFee*s.TaxRate/100)
	}
	return bp
}

// abandonBooking cancels a booking that can never be paid and returns its
// slot capacity. Used when no payment session exists for the booking.
func (s *DefaultBookingService) abandonBooking(booking *models.Booking) {
	if err := s.Bookings.UpdateStatus(booking.ID, models.StatusPending, models.StatusCanceled); err != nil {
		s.Logger.Error("Failed to cancel unpayable booking",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
	if err := s.Bookings.ReleaseSlot(booking.SlotID); err != nil {
		s.Logger.Error("Failed to release slot for unpayable booking",
			zap.String("slotID", booking.SlotID), zap.Error(err))
	}
}

func validateInput(input models.BookingInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return NewValidationError("customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return NewValidationError("customer email is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return NewValidationError("customer phone is required")
	}
	if input.ServiceID == "" {
		return NewValidationError("service is required")
	}
	if input.SlotID == "" {
		return NewValidationError("time slot is required")
	}
	return nil
}

func newBookingNumber() string {
	return fmt.Sprintf("BKG-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ErrSlotUnavailable is surfaced when capacity ran out between display and
// confirmation.
var ErrSlotUnavailable = bookingRepo.ErrSlotUnavailable
