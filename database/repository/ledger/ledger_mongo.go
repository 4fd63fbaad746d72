package ledgerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maravi/database"
	"maravi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEntry signals that an entry for this reference already exists.
// Callers treat it as proof the posting already happened, not as a failure.
var ErrDuplicateEntry = errors.New("ledger entry already exists for reference")

// MongoLedgerRepo implements LedgerRepository using MongoDB.
type MongoLedgerRepo struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepo creates a new instance of LedgerRepository using MongoDB.
func NewMongoLedgerRepo() LedgerRepository {
	repo := &MongoLedgerRepo{coll: database.Collection("ledger_entries")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create ledger indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoLedgerRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}, {Key: "type", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Append writes one immutable entry.
func (r *MongoLedgerRepo) Append(entry *models.LedgerEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	entry.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// FindByReference retrieves the entry for a gateway transaction reference.
func (r *MongoLedgerRepo) FindByReference(reference string) (*models.LedgerEntry, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var entry models.LedgerEntry
	if err := r.coll.FindOne(ctx, bson.M{"reference": reference}).Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ledger entry for reference %s: %w", reference, err)
	}
	return &entry, nil
}

// MarkReversed records an explicit reversal. Only the reversal fields are
// set; the original amounts are untouched and no counter-entry is written.
func (r *MongoLedgerRepo) MarkReversed(reference, by, reason string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"reference": reference, "reversed_at": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{
		"reversed_at":     time.Now(),
		"reversed_by":     by,
		"reversal_reason": reason,
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reverse ledger entry %s: %w", reference, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ledger entry %s not found or already reversed", reference)
	}
	return nil
}
