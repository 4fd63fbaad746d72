package checkout

import (
	"context"

	catalogRepo "maravi/database/repository/catalog"
	inventoryRepo "maravi/database/repository/inventory"
	orderRepo "maravi/database/repository/order"
	sessionRepo "maravi/database/repository/paymentsession"
	"maravi/models"
	"maravi/services/payment"

	"go.uber.org/zap"
)

// CheckoutService turns a cart into a priced, reserved, payable order.
type CheckoutService interface {
	Checkout(ctx context.Context, input models.CheckoutInput) (*models.CheckoutResult, error)
}

// ReservationScheduler enqueues a background retry for a failed inventory
// reservation. Implemented by the asynq client in the cron package.
type ReservationScheduler interface {
	EnqueueReservationRetry(orderID string) error
}

// DefaultCheckoutService implements CheckoutService.
type DefaultCheckoutService struct {
	Catalog   catalogRepo.CatalogRepository
	Orders    orderRepo.OrderRepository
	Sessions  sessionRepo.SessionRepository
	Inventory inventoryRepo.InventoryRepository
	Gateway   payment.Gateway
	Retry     ReservationScheduler
	TaxRate   float64 // percent, e.g. 16.5
	Currency  string
	Logger    *zap.Logger
}
