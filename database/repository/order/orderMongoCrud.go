// File: database/repository/order/orderMongoCrud.go
package orderRepo

import (
	"fmt"
	"time"

	"maravi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new order document.
func (r *MongoOrderRepo) Create(order *models.Order) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its unique ID.
func (r *MongoOrderRepo) GetByID(id string) (*models.Order, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch order with id %s: %w", id, err)
	}
	return &order, nil
}

// MarkPaid transitions PENDING -> PAID and attaches the verified payment in
// one conditional update.
func (r *MongoOrderRepo) MarkPaid(id string, payment models.PaymentDetails) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.StatusPending}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusPaid,
		"payment":    payment,
		"updated_at": time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark order %s paid: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleStatus
	}
	return nil
}

// UpdateStatus applies a conditional from -> to transition.
func (r *MongoOrderRepo) UpdateStatus(id string, from, to models.Status) error {
	if !models.CanTransition(from, to) {
		return fmt.Errorf("illegal order transition %s -> %s", from, to)
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleStatus
	}
	return nil
}

// SetReservationStatus records the current state of the inventory hold.
func (r *MongoOrderRepo) SetReservationStatus(id string, status models.ReservationStatus) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"reservation_status": status, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set reservation status for order %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order with id %s not found", id)
	}
	return nil
}
