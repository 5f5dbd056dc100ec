package hotelRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickstay/database/repository"
	"quickstay/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHotelRepo implements HotelRepository using MongoDB.
type MongoHotelRepo struct {
	coll *mongo.Collection
}

// NewMongoHotelRepo creates a HotelRepository backed by the "hotels" collection.
func NewMongoHotelRepo(ctx context.Context, db *mongo.Database) (*MongoHotelRepo, error) {
	repo := &MongoHotelRepo{coll: db.Collection("hotels")}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoHotelRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One hotel per owner.
		{Keys: bson.D{{Key: "ownerId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create hotel indexes: %w", err)
	}
	return nil
}

// Create inserts a new hotel document.
func (r *MongoHotelRepo) Create(ctx context.Context, hotel *models.Hotel) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if hotel.ID == "" {
		hotel.ID = uuid.New().String()
	}
	hotel.CreatedAt = now
	hotel.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, hotel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create hotel: %w", err)
	}
	return nil
}

func (r *MongoHotelRepo) GetByID(ctx context.Context, id string) (*models.Hotel, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoHotelRepo) GetByOwner(ctx context.Context, ownerID string) (*models.Hotel, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID})
}

func (r *MongoHotelRepo) findOne(ctx context.Context, filter bson.M) (*models.Hotel, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var hotel models.Hotel
	if err := r.coll.FindOne(ctx, filter).Decode(&hotel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch hotel: %w", err)
	}
	return &hotel, nil
}
