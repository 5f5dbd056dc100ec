package roomRepo

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

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	coll *mongo.Collection
}

func NewMongoRoomRepo(ctx context.Context, db *mongo.Database) (*MongoRoomRepo, error) {
	repo := &MongoRoomRepo{coll: db.Collection("rooms")}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoRoomRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "hotelId", Value: 1}}},
		{Keys: bson.D{{Key: "isAvailable", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}
	return nil
}

// Create inserts a new room document.
func (r *MongoRoomRepo) Create(ctx context.Context, room *models.Room) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	if room.Images == nil {
		room.Images = []string{}
	}
	room.CreatedAt = now
	room.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *MongoRoomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var room models.Room
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch room %s: %w", id, err)
	}
	return &room, nil
}

func (r *MongoRoomRepo) ListAvailable(ctx context.Context) ([]models.RoomWithHotel, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isAvailable": true}}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "hotels",
			"localField":   "hotelId",
			"foreignField": "id",
			"as":           "hotel",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$hotel", "preserveNullAndEmptyArrays": true}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []models.RoomWithHotel{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("error decoding rooms: %w", err)
	}
	return rooms, nil
}

func (r *MongoRoomRepo) ListByHotel(ctx context.Context, hotelID string) ([]models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"hotelId": hotelID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms for hotel %s: %w", hotelID, err)
	}
	defer cursor.Close(ctx)

	rooms := []models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("error decoding rooms: %w", err)
	}
	return rooms, nil
}

// Update replaces the mutable fields of a room (price, amenities, images, capacity).
func (r *MongoRoomRepo) Update(ctx context.Context, room *models.Room) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	room.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"roomType":      room.RoomType,
		"pricePerNight": room.PricePerNight,
		"capacity":      room.Capacity,
		"amenities":     room.Amenities,
		"images":        room.Images,
		"updatedAt":     room.UpdatedAt,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": room.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", room.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoRoomRepo) SetAvailability(ctx context.Context, id string, available bool) (*models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"isAvailable": available, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var room models.Room
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set availability on room %s: %w", id, err)
	}
	return &room, nil
}
