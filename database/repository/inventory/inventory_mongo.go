package inventoryRepo

import (
	"context"
	"fmt"
	"time"

	"maravi/database"
	"maravi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsufficientStockError reports which SKU could not be held.
type InsufficientStockError struct {
	SKU      string
	Required int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for sku %s (required %d)", e.SKU, e.Required)
}

// MongoInventoryRepo implements InventoryRepository using MongoDB. Stock
// documents are {sku, available, reserved}; reservation rows are
// {order_id, sku, quantity, status} with a unique (order_id, sku) index.
type MongoInventoryRepo struct {
	stock        *mongo.Collection
	reservations *mongo.Collection
}

// NewMongoInventoryRepo creates a new instance of InventoryRepository using MongoDB.
func NewMongoInventoryRepo() InventoryRepository {
	repo := &MongoInventoryRepo{
		stock:        database.Collection("stock"),
		reservations: database.Collection("reservations"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create inventory indexes: %v\n", err)
	}
	return repo
}

func (r *MongoInventoryRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.stock.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("stock index: %w", err)
	}
	_, err := r.reservations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("reservations index: %w", err)
	}
	return nil
}

// AlreadyReserved reports whether every line of the order is already held.
// Used as the idempotency short-circuit before re-running a reservation.
func (r *MongoInventoryRepo) AlreadyReserved(ctx context.Context, orderID string, lineCount int) (bool, error) {
	n, err := r.reservations.CountDocuments(ctx, bson.M{"order_id": orderID, "status": "RESERVED"})
	if err != nil {
		return false, fmt.Errorf("failed to count reservations for order %s: %w", orderID, err)
	}
	return int(n) == lineCount, nil
}

// Reserve holds stock for every line of an order. The reservation row is
// inserted before the stock moves: the unique (order_id, sku) index is the
// per-line lock, so when two runs for the same order race (the retry worker
// against the reconciler), the loser hits a duplicate key and skips the
// decrement instead of taking the stock twice. Each decrement is a single
// conditional update (available >= qty), so concurrent checkouts cannot
// oversell. If any line cannot be held, lines this run reserved are rolled
// back and an InsufficientStockError is returned.
func (r *MongoInventoryRepo) Reserve(ctx context.Context, orderID string, lines []models.ReservationLine) error {
	if done, err := r.AlreadyReserved(ctx, orderID, len(lines)); err != nil {
		return err
	} else if done {
		return nil
	}

	var held []models.ReservationLine
	for _, line := range lines {
		row := bson.M{"order_id": orderID, "sku": line.SKU, "quantity": line.Quantity,
			"status": "RESERVED", "created_at": time.Now()}
		if _, err := r.reservations.InsertOne(ctx, row); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Another run already holds this line for the order.
				continue
			}
			r.rollback(ctx, orderID, held)
			return fmt.Errorf("failed to record reservation for sku %s: %w", line.SKU, err)
		}

		filter := bson.M{"sku": line.SKU, "available": bson.M{"$gte": line.Quantity}}
		update := bson.M{"$inc": bson.M{"available": -line.Quantity, "reserved": line.Quantity}}
		result, err := r.stock.UpdateOne(ctx, filter, update)
		if err != nil {
			r.deleteRow(ctx, orderID, line.SKU)
			r.rollback(ctx, orderID, held)
			return fmt.Errorf("failed to reserve sku %s: %w", line.SKU, err)
		}
		if result.MatchedCount == 0 {
			r.deleteRow(ctx, orderID, line.SKU)
			r.rollback(ctx, orderID, held)
			return &InsufficientStockError{SKU: line.SKU, Required: line.Quantity}
		}
		held = append(held, line)
	}
	return nil
}

// rollback undoes the lines this run holds. Rows held by a concurrent run
// for the same order are left alone; that run owns their cleanup.
func (r *MongoInventoryRepo) rollback(ctx context.Context, orderID string, held []models.ReservationLine) {
	for _, line := range held {
		filter := bson.M{"sku": line.SKU}
		update := bson.M{"$inc": bson.M{"available": line.Quantity, "reserved": -line.Quantity}}
		if _, err := r.stock.UpdateOne(ctx, filter, update); err != nil {
			fmt.Printf("failed to roll back reservation for sku %s: %v\n", line.SKU, err)
		}
		r.deleteRow(ctx, orderID, line.SKU)
	}
}

func (r *MongoInventoryRepo) deleteRow(ctx context.Context, orderID, sku string) {
	if _, err := r.reservations.DeleteOne(ctx, bson.M{"order_id": orderID, "sku": sku}); err != nil {
		fmt.Printf("failed to remove reservation row for sku %s: %v\n", sku, err)
	}
}

// Confirm marks an order's holds as committed once payment is verified.
func (r *MongoInventoryRepo) Confirm(ctx context.Context, orderID string) error {
	filter := bson.M{"order_id": orderID, "status": "RESERVED"}
	update := bson.M{"$set": bson.M{"status": "CONFIRMED"}}
	if _, err := r.reservations.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to confirm reservations for order %s: %w", orderID, err)
	}
	return nil
}

// Release returns held stock, used when an order is canceled.
func (r *MongoInventoryRepo) Release(ctx context.Context, orderID string) error {
	cursor, err := r.reservations.Find(ctx, bson.M{"order_id": orderID, "status": "RESERVED"})
	if err != nil {
		return fmt.Errorf("failed to load reservations for order %s: %w", orderID, err)
	}
	defer cursor.Close(ctx)

	type row struct {
		SKU      string `bson:"sku"`
		Quantity int    `bson:"quantity"`
	}
	var rows []row
	for cursor.Next(ctx) {
		var x row
		if err := cursor.Decode(&x); err != nil {
			return fmt.Errorf("failed to decode reservation: %w", err)
		}
		rows = append(rows, x)
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	for _, x := range rows {
		update := bson.M{"$inc": bson.M{"available": x.Quantity, "reserved": -x.Quantity}}
		if _, err := r.stock.UpdateOne(ctx, bson.M{"sku": x.SKU}, update); err != nil {
			return fmt.Errorf("failed to release stock for sku %s: %w", x.SKU, err)
		}
	}
	filter := bson.M{"order_id": orderID, "status": "RESERVED"}
	if _, err := r.reservations.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": "RELEASED"}}); err != nil {
		return fmt.Errorf("failed to mark reservations released for order %s: %w", orderID, err)
	}
	return nil
}
