// File: database/repository/user/userMongoCrud.go
package userRepo

import (
	"context"
	"fmt"
	"time"

	"quickstay/database/repository"
	"quickstay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Upsert inserts or refreshes a user document.
func (r *MongoUserRepo) Upsert(ctx context.Context, user *models.User) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	user.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"username":  user.Username,
			"email":     user.Email,
			"image":     user.Image,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"role":                 models.RoleUser,
			"recentSearchedCities": []string{},
			"createdAt":            now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": user.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert user with id %s: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user document by its ID.
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) SetRole(ctx context.Context, id, role string) error {
	return r.updateSetDocument(ctx, id, bson.M{"role": role})
}

func (r *MongoUserRepo) updateSetDocument(ctx context.Context, id string, updateDoc bson.M) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	updateDoc["updatedAt"] = time.Now().UTC()
	update := bson.M{"$set": updateDoc}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PushRecentCity moves city to the end of recentSearchedCities in one
// pipeline update, dropping duplicates and trimming to the newest entries.
func (r *MongoUserRepo) PushRecentCity(ctx context.Context, id, city string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	existing := bson.D{{Key: "$ifNull", Value: bson.A{"$recentSearchedCities", bson.A{}}}}
	withoutCity := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: existing},
		{Key: "as", Value: "c"},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$c", city}}}},
	}}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "recentSearchedCities", Value: bson.D{{Key: "$slice", Value: bson.A{
				bson.D{{Key: "$concatArrays", Value: bson.A{withoutCity, bson.A{city}}}},
				-models.MaxRecentCities,
			}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to record recent city for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
