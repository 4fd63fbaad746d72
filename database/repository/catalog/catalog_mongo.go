package catalogRepo

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

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	items     *mongo.Collection
	promos    *mongo.Collection
	providers *mongo.Collection
}

// NewMongoCatalogRepo creates a new instance of CatalogRepository using MongoDB.
func NewMongoCatalogRepo() CatalogRepository {
	repo := &MongoCatalogRepo{
		items:     database.Collection("items"),
		promos:    database.Collection("promotions"),
		providers: database.Collection("delivery_providers"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create catalog indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("items index: %w", err)
	}
	_, err := r.promos.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("promotions index: %w", err)
	}
	return nil
}

// GetItem retrieves a catalog item by its unique ID.
func (r *MongoCatalogRepo) GetItem(id string) (*models.Item, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var item models.Item
	if err := r.items.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch item with id %s: %w", id, err)
	}
	return &item, nil
}

// ActivePromotionsFor returns ACTIVE promotions referencing the given item.
// Date-window filtering stays in the pricing engine so the selection logic
// lives in one place.
func (r *MongoCatalogRepo) ActivePromotionsFor(itemID string, kind models.ItemKind) ([]models.Promotion, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	refField := "product_ids"
	if kind == models.ItemKindService {
		refField = "service_ids"
	}
	filter := bson.M{"status": models.PromotionActive, refField: itemID}

	cursor, err := r.promos.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch promotions for item %s: %w", itemID, err)
	}
	defer cursor.Close(ctx)

	var promos []models.Promotion
	for cursor.Next(ctx) {
		var p models.Promotion
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode promotion: %w", err)
		}
		promos = append(promos, p)
	}
	return promos, nil
}

// GetDeliveryProvider retrieves a delivery provider by its unique ID.
func (r *MongoCatalogRepo) GetDeliveryProvider(id string) (*models.DeliveryProvider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var provider models.DeliveryProvider
	if err := r.providers.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch delivery provider with id %s: %w", id, err)
	}
	return &provider, nil
}
