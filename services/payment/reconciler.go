package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "maravi/database/repository/booking"
	inventoryRepo "maravi/database/repository/inventory"
	ledgerRepo "maravi/database/repository/ledger"
	orderRepo "maravi/database/repository/order"
	sessionRepo "maravi/database/repository/paymentsession"
	"maravi/models"
	"maravi/services/notification"
	"maravi/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReplayCache is the slice of redis the reconciler uses to short-circuit
// replayed callbacks. Satisfied by *redis.Client.
type ReplayCache interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Reconciler converts verified gateway callbacks into durable state: status
// transitions, ledger entries, inventory confirmation and notifications.
// Callbacks are delivered at least once, so every step is safe to re-run.
type Reconciler struct {
	Sessions  sessionRepo.SessionRepository
	Orders    orderRepo.OrderRepository
	Bookings  bookingRepo.BookingRepository
	Ledger    ledgerRepo.LedgerRepository
	Inventory inventoryRepo.InventoryRepository
	Gateway   Gateway
	Notifier  notification.NotificationService
	Dedup     ReplayCache // optional replay fast path
	Logger    *zap.Logger
}

// HandleCallback processes one webhook push or verification result.
// Duplicate deliveries return nil without touching any state.
func (r *Reconciler) HandleCallback(ctx context.Context, cb models.GatewayCallback) error {
	session, err := r.Sessions.GetByTxRef(cb.TxRef)
	if err != nil {
		return fmt.Errorf("failed to look up session for %s: %w", cb.TxRef, err)
	}
	if session == nil {
		r.Logger.Warn("Callback for unknown transaction rejected", zap.String("txRef", cb.TxRef))
		return ErrUnknownTransaction
	}

	if r.seenBefore(ctx, cb.TxRef) {
		return nil
	}

	if session.BookingID != "" {
		return r.reconcileBooking(ctx, session, cb)
	}
	return r.reconcileOrder(ctx, session, cb)
}

// VerifyTransaction polls the gateway for the authoritative result of a
// session and feeds it through the same reconciliation path as a webhook.
func (r *Reconciler) VerifyTransaction(ctx context.Context, txRef string) error {
	session, err := r.Sessions.GetByTxRef(txRef)
	if err != nil {
		return fmt.Errorf("failed to look up session for %s: %w", txRef, err)
	}
	if session == nil {
		return ErrUnknownTransaction
	}

	cb, err := r.Gateway.Verify(ctx, session)
	if err != nil {
		return err
	}
	return r.HandleCallback(ctx, *cb)
}

// ReverseEntry marks a ledger entry reversed. The original entry is left
// intact; only the reversal fields are set.
func (r *Reconciler) ReverseEntry(ctx context.Context, reference, by, reason string) error {
	if err := r.Ledger.MarkReversed(reference, by, reason); err != nil {
		return err
	}
	r.Logger.Info("Ledger entry reversed",
		zap.String("reference", reference), zap.String("by", by), zap.String("reason", reason))
	return nil
}

func (r *Reconciler) reconcileOrder(ctx context.Context, session *models.PaymentSession, cb models.GatewayCallback) error {
	order, err := r.Orders.GetByID(session.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", session.OrderID, err)
	}
	if order == nil {
		return fmt.Errorf("session %s references missing order %s", session.TxRef, session.OrderID)
	}

	// Idempotency guard: a replayed success after payment is a no-op, and a
	// late failure callback must never cancel a paid order.
	if order.Status.AtLeastPaid() {
		r.markSeen(ctx, cb.TxRef)
		return nil
	}

	switch cb.Status {
	case models.CallbackSuccess:
		if err := r.checkAmount(session, cb); err != nil {
			return err
		}
		if err := r.Orders.MarkPaid(order.ID, paymentDetails(cb)); err != nil {
			if errors.Is(err, orderRepo.ErrStaleStatus) {
				// A concurrent reconciliation already applied this payment.
				return nil
			}
			return err
		}
		r.updateSession(session.TxRef, models.SessionPaid)
		r.postLedger(&models.LedgerEntry{
			ID:          uuid.New().String(),
			Type:        models.LedgerOrderSale,
			Reference:   cb.TxRef,
			OrderID:     order.ID,
			Amount:      cb.Amount,
			Currency:    cb.Currency,
			Description: fmt.Sprintf("sale for order %s", order.OrderNumber),
		})
		r.confirmInventory(ctx, order)
		if err := r.Notifier.NotifyOrderPaid(ctx, order); err != nil {
			r.Logger.Error("Order payment notification failed",
				zap.String("orderID", order.ID), zap.Error(err))
		}
		r.markSeen(ctx, cb.TxRef)
		r.Logger.Info("Order reconciled as paid",
			zap.String("orderNumber", order.OrderNumber), zap.String("txRef", cb.TxRef))
		return nil

	case models.CallbackFailed:
		if err := r.Orders.UpdateStatus(order.ID, models.StatusPending, models.StatusCanceled); err != nil {
			if errors.Is(err, orderRepo.ErrStaleStatus) {
				return nil
			}
			return err
		}
		r.updateSession(session.TxRef, models.SessionFailed)
		if err := r.Inventory.Release(ctx, order.ID); err != nil {
			r.Logger.Error("Failed to release stock for canceled order",
				zap.String("orderID", order.ID), zap.Error(err))
		} else {
			if err := r.Orders.SetReservationStatus(order.ID, models.ReservationReleased); err != nil {
				r.Logger.Error("Failed to record released reservation",
					zap.String("orderID", order.ID), zap.Error(err))
			}
		}
		r.Logger.Info("Order canceled after gateway failure",
			zap.String("orderNumber", order.OrderNumber), zap.String("txRef", cb.TxRef))
		return nil

	default:
		// "pending" and anything unrecognized leave the order untouched.
		return nil
	}
}

func (r *Reconciler) reconcileBooking(ctx context.Context, session *models.PaymentSession, cb models.GatewayCallback) error {
	booking, err := r.Bookings.GetByID(session.BookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", session.BookingID, err)
	}
	if booking == nil {
		return fmt.Errorf("session %s references missing booking %s", session.TxRef, session.BookingID)
	}

	if booking.Status.AtLeastPaid() {
		r.markSeen(ctx, cb.TxRef)
		return nil
	}

	switch cb.Status {
	case models.CallbackSuccess:
		if err := r.checkAmount(session, cb); err != nil {
			return err
		}
		if err := r.Bookings.MarkPaid(booking.ID, paymentDetails(cb)); err != nil {
			if errors.Is(err, bookingRepo.ErrStaleStatus) {
				return nil
			}
			return err
		}
		r.updateSession(session.TxRef, models.SessionPaid)
		r.postLedger(&models.LedgerEntry{
			ID:          uuid.New().String(),
			Type:        models.LedgerBookingPayment,
			Reference:   cb.TxRef,
			BookingID:   booking.ID,
			Amount:      cb.Amount,
			Currency:    cb.Currency,
			Description: fmt.Sprintf("payment for booking %s", booking.BookingNumber),
		})
		if err := r.Notifier.NotifyBookingPaid(ctx, booking); err != nil {
			r.Logger.Error("Booking payment notification failed",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
		r.markSeen(ctx, cb.TxRef)
		r.Logger.Info("Booking reconciled as paid",
			zap.String("bookingNumber", booking.BookingNumber), zap.String("txRef", cb.TxRef))
		return nil

	case models.CallbackFailed:
		if err := r.Bookings.UpdateStatus(booking.ID, models.StatusPending, models.StatusCanceled); err != nil {
			if errors.Is(err, bookingRepo.ErrStaleStatus) {
				return nil
			}
			return err
		}
		r.updateSession(session.TxRef, models.SessionFailed)
		if err := r.Bookings.ReleaseSlot(booking.SlotID); err != nil {
			r.Logger.Error("Failed to release slot for canceled booking",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
		r.Logger.Info("Booking canceled after gateway failure",
			zap.String("bookingNumber", booking.BookingNumber), zap.String("txRef", cb.TxRef))
		return nil

	default:
		return nil
	}
}

// checkAmount enforces the exact amount and currency recorded on the
// session. A short payment is never silently accepted.
func (r *Reconciler) checkAmount(session *models.PaymentSession, cb models.GatewayCallback) error {
	if !utils.MoneyEquals(cb.Amount, session.Amount) || !strings.EqualFold(cb.Currency, session.Currency) {
		err := &MismatchError{
			TxRef:            session.TxRef,
			ExpectedAmount:   session.Amount,
			ReportedAmount:   cb.Amount,
			ExpectedCurrency: session.Currency,
			ReportedCurrency: cb.Currency,
		}
		// Operator alert: this must never pass unnoticed.
		r.Logger.Error("Payment amount mismatch", zap.String("txRef", session.TxRef),
			zap.Float64("expected", session.Amount), zap.Float64("reported", cb.Amount),
			zap.String("expectedCurrency", session.Currency), zap.String("reportedCurrency", cb.Currency))
		return err
	}
	return nil
}

// postLedger appends an entry, treating a duplicate as proof the posting
// already happened on a previous delivery.
func (r *Reconciler) postLedger(entry *models.LedgerEntry) {
	if err := r.Ledger.Append(entry); err != nil {
		if errors.Is(err, ledgerRepo.ErrDuplicateEntry) {
			r.Logger.Debug("Ledger entry already posted", zap.String("reference", entry.Reference))
			return
		}
		// The payment is applied but the ledger write failed; surface loudly
		// so an operator can re-post from the session record.
		r.Logger.Error("Failed to append ledger entry",
			zap.String("reference", entry.Reference), zap.Error(err))
	}
}

// confirmInventory re-runs the idempotent reservation and commits it.
// Failures are logged, not fatal: the order is paid either way and unheld
// stock is re-checked before shipment.
func (r *Reconciler) confirmInventory(ctx context.Context, order *models.Order) {
	lines := order.ReservationLines()
	if len(lines) == 0 {
		return
	}
	if err := r.Inventory.Reserve(ctx, order.ID, lines); err != nil {
		r.Logger.Error("Inventory re-reservation failed after payment",
			zap.String("orderID", order.ID), zap.Error(err))
		return
	}
	if err := r.Inventory.Confirm(ctx, order.ID); err != nil {
		r.Logger.Error("Inventory confirmation failed after payment",
			zap.String("orderID", order.ID), zap.Error(err))
		return
	}
	if err := r.Orders.SetReservationStatus(order.ID, models.ReservationConfirmed); err != nil {
		r.Logger.Error("Failed to record confirmed reservation",
			zap.String("orderID", order.ID), zap.Error(err))
	}
}

func (r *Reconciler) updateSession(txRef, status string) {
	if err := r.Sessions.UpdateStatus(txRef, status); err != nil {
		r.Logger.Error("Failed to update payment session status",
			zap.String("txRef", txRef), zap.Error(err))
	}
}

// seenBefore and markSeen key on txRef alone. Invariant: markSeen runs only
// once a payment is applied (success or an AtLeastPaid target), never on a
// failed or pending callback, so a present key always means the target is at
// least PAID. Extending markSeen to any other path requires keying on
// txRef+status, or a later legitimate callback would be suppressed.
func (r *Reconciler) seenBefore(ctx context.Context, txRef string) bool {
	if r.Dedup == nil {
		return false
	}
	n, err := r.Dedup.Exists(ctx, utils.DedupCachePrefix+txRef).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (r *Reconciler) markSeen(ctx context.Context, txRef string) {
	if r.Dedup == nil {
		return
	}
	if err := r.Dedup.Set(ctx, utils.DedupCachePrefix+txRef, "1", utils.DedupCacheTTL).Err(); err != nil {
		r.Logger.Warn("Failed to store dedup key", zap.String("txRef", txRef), zap.Error(err))
	}
}

func paymentDetails(cb models.GatewayCallback) models.PaymentDetails {
	paymentID := cb.Reference
	if paymentID == "" {
		paymentID = cb.TxRef
	}
	return models.PaymentDetails{
		PaymentID:     paymentID,
		PaymentMethod: "hosted_checkout",
		PaidAt:        time.Now(),
		Amount:        cb.Amount,
		Currency:      cb.Currency,
	}
}
