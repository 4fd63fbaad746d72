// File: database/repository/booking/bookingMongoCrud.go
package bookingRepo

import (
	"fmt"
	"time"

	"maravi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.bookings.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// MarkPaid transitions PENDING -> PAID and attaches the verified payment in
// one conditional update.
func (r *MongoBookingRepo) MarkPaid(id string, payment models.PaymentDetails) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.StatusPending}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusPaid,
		"payment":    payment,
		"updated_at": time.Now(),
	}}
	result, err := r.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking %s paid: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleStatus
	}
	return nil
}

// UpdateStatus applies a conditional from -> to transition.
func (r *MongoBookingRepo) UpdateStatus(id string, from, to models.Status) error {
	if !models.CanTransition(from, to) {
		return fmt.Errorf("illegal booking transition %s -> %s", from, to)
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}
	result, err := r.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleStatus
	}
	return nil
}

// GetSlot retrieves a service slot by its unique ID.
func (r *MongoBookingRepo) GetSlot(id string) (*models.ServiceSlot, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var slot models.ServiceSlot
	if err := r.slots.FindOne(ctx, bson.M{"id": id}).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch slot with id %s: %w", id, err)
	}
	return &slot, nil
}

// HoldSlot takes one unit of capacity with a single conditional update: the
// filter requires remaining capacity, so concurrent holds cannot overbook.
func (r *MongoBookingRepo) HoldSlot(slotID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":      slotID,
		"blocked": false,
		"$expr":   bson.M{"$lt": bson.A{"$booked", "$capacity"}},
	}
	update := bson.M{"$inc": bson.M{"booked": 1}}
	result, err := r.slots.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to hold slot %s: %w", slotID, err)
	}
	if result.MatchedCount == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

// ReleaseSlot returns one unit of capacity, clamped at zero.
func (r *MongoBookingRepo) ReleaseSlot(slotID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "booked": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"booked": -1}}
	if _, err := r.slots.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release slot %s: %w", slotID, err)
	}
	return nil
}
