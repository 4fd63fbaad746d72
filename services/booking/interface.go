package booking

import (
	"context"

	bookingRepo "maravi/database/repository/booking"
	catalogRepo "maravi/database/repository/catalog"
	sessionRepo "maravi/database/repository/paymentsession"
	"maravi/models"
	"maravi/services/payment"

	"go.uber.org/zap"
)

// BookingService turns a service selection and time slot into a payable
// booking.
type BookingService interface {
	Book(ctx context.Context, input models.BookingInput) (*models.BookingResult, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Catalog  catalogRepo.CatalogRepository
	Bookings bookingRepo.BookingRepository
	Sessions sessionRepo.SessionRepository
	Gateway  payment.Gateway
	TaxRate  float64 // percent
	Currency string
	Logger   *zap.Logger
}
