package inventoryRepo

import (
	"context"
	"errors"
	"testing"

	"maravi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newTestRepo(mt *mtest.T) *MongoInventoryRepo {
	return &MongoInventoryRepo{
		stock:        mt.DB.Collection("stock"),
		reservations: mt.DB.Collection("reservations"),
	}
}

func countCommands(mt *mtest.T, name string) int {
	n := 0
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == name {
			n++
		}
	}
	return n
}

func TestReserveDuplicateLineSkipsDecrement(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate row means the line is already held", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		ns := mt.DB.Name() + ".reservations"

		mt.AddMockResponses(
			// AlreadyReserved count: one of two lines held.
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			// sku-a row insert: a concurrent run for this order got there first.
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key"}),
			// sku-b row insert succeeds.
			mtest.CreateSuccessResponse(),
			// sku-b stock decrement.
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		err := repo.Reserve(context.Background(), "order-1", []models.ReservationLine{
			{SKU: "sku-a", Quantity: 1},
			{SKU: "sku-b", Quantity: 2},
		})
		if err != nil {
			t.Fatalf("reserve failed: %v", err)
		}

		// The duplicate line must not move stock again: one update for
		// sku-b, nothing for sku-a.
		if got := countCommands(mt, "update"); got != 1 {
			t.Errorf("expected exactly 1 stock update, got %d", got)
		}
		if got := countCommands(mt, "insert"); got != 2 {
			t.Errorf("expected 2 row inserts, got %d", got)
		}
	})
}

func TestReserveInsufficientStockRemovesOwnRow(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("failed decrement deletes the row it claimed", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		ns := mt.DB.Name() + ".reservations"

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 0}}),
			// Row insert succeeds.
			mtest.CreateSuccessResponse(),
			// Conditional decrement matches nothing: not enough stock.
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			// Row cleanup.
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		err := repo.Reserve(context.Background(), "order-1", []models.ReservationLine{
			{SKU: "sku-a", Quantity: 5},
		})
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}
		if stockErr.SKU != "sku-a" || stockErr.Required != 5 {
			t.Errorf("unexpected error detail: %+v", stockErr)
		}

		// The claimed row must be removed so Release never re-credits
		// stock that was never taken.
		if got := countCommands(mt, "delete"); got != 1 {
			t.Errorf("expected 1 row delete, got %d", got)
		}
	})
}

func TestReserveShortCircuitsWhenFullyHeld(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fully reserved order touches nothing", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		ns := mt.DB.Name() + ".reservations"

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 2}}),
		)

		err := repo.Reserve(context.Background(), "order-1", []models.ReservationLine{
			{SKU: "sku-a", Quantity: 1},
			{SKU: "sku-b", Quantity: 2},
		})
		if err != nil {
			t.Fatalf("reserve failed: %v", err)
		}

		if got := countCommands(mt, "insert"); got != 0 {
			t.Errorf("fully held order must not insert rows, got %d", got)
		}
		if got := countCommands(mt, "update"); got != 0 {
			t.Errorf("fully held order must not move stock, got %d", got)
		}
	})
}
