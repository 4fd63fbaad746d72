package inventoryRepo

import (
	"context"

	"maravi/models"
)

// InventoryRepository holds, confirms and releases stock for orders. Stock
// only ever moves through single conditional updates; Reserve is idempotent
// per order so the checkout path and the retry worker can both call it.
type InventoryRepository interface {
	Reserve(ctx context.Context, orderID string, lines []models.ReservationLine) error
	AlreadyReserved(ctx context.Context, orderID string, lineCount int) (bool, error)
	Confirm(ctx context.Context, orderID string) error
	Release(ctx context.Context, orderID string) error
}
