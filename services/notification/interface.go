package notification

import (
	"context"

	"maravi/models"

	"go.uber.org/zap"
)

// NotificationService is the external collaborator that tells customers
// about payment outcomes. Content rendering and delivery live outside this
// system; the reconciler only triggers it.
type NotificationService interface {
	NotifyOrderPaid(ctx context.Context, order *models.Order) error
	NotifyBookingPaid(ctx context.Context, booking *models.Booking) error
}

// LogNotificationService is the default implementation used until a real
// delivery channel is wired in deployment; it records the trigger and
// nothing else.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) NotifyOrderPaid(ctx context.Context, order *models.Order) error {
	s.Logger.Info("Order payment notification triggered",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("customerEmail", order.CustomerEmail))
	return nil
}

func (s *LogNotificationService) NotifyBookingPaid(ctx context.Context, booking *models.Booking) error {
	s.Logger.Info("Booking payment notification triggered",
		zap.String("bookingNumber", booking.BookingNumber),
		zap.String("customerEmail", booking.CustomerEmail))
	return nil
}
