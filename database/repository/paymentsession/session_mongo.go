package sessionRepo

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

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo creates a new instance of SessionRepository using MongoDB.
func NewMongoSessionRepo() SessionRepository {
	repo := &MongoSessionRepo{coll: database.Collection("payment_sessions")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create session indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSessionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tx_ref", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "order_id", Value: 1}}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new payment session document.
func (r *MongoSessionRepo) Create(session *models.PaymentSession) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create payment session: %w", err)
	}
	return nil
}

// GetByTxRef retrieves a session by its transaction reference.
func (r *MongoSessionRepo) GetByTxRef(txRef string) (*models.PaymentSession, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var session models.PaymentSession
	if err := r.coll.FindOne(ctx, bson.M{"tx_ref": txRef}).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch payment session %s: %w", txRef, err)
	}
	return &session, nil
}

// UpdateStatus records the latest gateway-reported session state.
func (r *MongoSessionRepo) UpdateStatus(txRef, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"tx_ref": txRef}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update payment session %s: %w", txRef, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("payment session %s not found", txRef)
	}
	return nil
}
