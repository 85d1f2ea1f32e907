package catalogRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"classhub/database"
	"classhub/models"
	"classhub/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	itemCachePrefix = "catalog:item:"
	itemCacheTTL    = 10 * time.Minute
)

// MongoCatalogRepo implements CatalogRepository using MongoDB with a Redis
// read-through cache for single-item lookups (the hot path of pricing
// resolution).
type MongoCatalogRepo struct {
	coll  *mongo.Collection
	cache *redis.Client
}

// NewMongoCatalogRepo creates a new instance of CatalogRepository using MongoDB.
func NewMongoCatalogRepo(dbName string) CatalogRepository {
	coll := database.MongoClient.Database(dbName).Collection("catalog_items")
	return &MongoCatalogRepo{coll: coll, cache: utils.GetCacheClient()}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetItem retrieves a catalog item by ID, consulting the cache first. Cache
// failures fall back to the database; they are never fatal.
func (r *MongoCatalogRepo) GetItem(id string) (*models.CatalogItem, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	key := itemCachePrefix + id
	if cached, err := r.cache.Get(ctx, key).Result(); err == nil {
		var item models.CatalogItem
		if err := json.Unmarshal([]byte(cached), &item); err == nil {
			return &item, nil
		}
	}

	var item models.CatalogItem
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch catalog item %s: %w", id, err)
	}

	if data, err := json.Marshal(item); err == nil {
		_ = r.cache.Set(ctx, key, data, itemCacheTTL).Err()
	}
	return &item, nil
}

// GetItemsByService retrieves all catalog items for a service in their
// configured sort order.
func (r *MongoCatalogRepo) GetItemsByService(serviceID string) ([]models.CatalogItem, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"service_id": serviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.CatalogItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog items: %w", err)
	}
	return items, nil
}
