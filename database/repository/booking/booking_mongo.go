package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickstay/database/repository"
	"quickstay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	nightColl   *mongo.Collection
}

type roomNight struct {
	RoomID    string    `bson:"roomId"`
	Night     string    `bson:"night"`
	BookingID string    `bson:"bookingId"`
	CreatedAt time.Time `bson:"createdAt"`
}

func NewMongoBookingRepo(ctx context.Context, db *mongo.Database) (*MongoBookingRepo, error) {
	repo := &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		nightColl:   db.Collection("room_nights"),
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoBookingRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	bookingIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "paymentSessionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"paymentSessionId": bson.M{"$type": "string"}},
			),
		},
		{Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "status", Value: 1}, {Key: "checkIn", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "hotelId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	if _, err := r.bookingColl.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	// The unique (roomId, night) index is what prevents two confirmations
	// from holding the same night.
	nightIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "night", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}},
	}
	if _, err := r.nightColl.Indexes().CreateMany(ctx, nightIndexes); err != nil {
		return fmt.Errorf("failed to create room night indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"paymentSessionId": sessionID})
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var booking models.Booking
	if err := r.bookingColl.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.BookingWithDetails, error) {
	return r.listWithDetails(ctx, bson.M{"userId": userID})
}

func (r *MongoBookingRepo) ListByHotel(ctx context.Context, hotelID string) ([]models.BookingWithDetails, error) {
	return r.listWithDetails(ctx, bson.M{"hotelId": hotelID})
}

// listWithDetails joins bookings with their room and hotel documents.
func (r *MongoBookingRepo) listWithDetails(ctx context.Context, match bson.M) ([]models.BookingWithDetails, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "rooms",
			"localField":   "roomId",
			"foreignField": "id",
			"as":           "room",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$room", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "hotels",
			"localField":   "hotelId",
			"foreignField": "id",
			"as":           "hotel",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$hotel", "preserveNullAndEmptyArrays": true}}},
	}
	cursor, err := r.bookingColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.BookingWithDetails{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) FindOverlapping(ctx context.Context, roomID string, from, to time.Time, status models.BookingStatus, excludeID string) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"roomId":   roomID,
		"status":   status,
		"checkIn":  bson.M{"$lt": to},
		"checkOut": bson.M{"$gt": from},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	cursor, err := r.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding overlapping bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) SetPaymentSession(ctx context.Context, id, sessionID string, startedAt time.Time) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": id, "status": models.BookingPending}
	update := bson.M{"$set": bson.M{"paymentSessionId": sessionID, "paymentStartedAt": startedAt.UTC(), "updatedAt": time.Now().UTC()}}
	res, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to record payment session for booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

func (r *MongoBookingRepo) TransitionStatus(ctx context.Context, id string, from, to models.BookingStatus, patch StatusPatch) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	if patch.IsPaid != nil {
		set["isPaid"] = *patch.IsPaid
	}
	if patch.CancelReason != "" {
		set["cancelReason"] = patch.CancelReason
	}

	filter := bson.M{"id": id, "status": from}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.bookingColl.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missOrConflict(ctx, id)
		}
		return nil, fmt.Errorf("failed to transition booking %s: %w", id, err)
	}
	return &booking, nil
}

// missOrConflict distinguishes a missing booking from one in the wrong state
// after a conditional update matched nothing.
func (r *MongoBookingRepo) missOrConflict(ctx context.Context, id string) error {
	n, err := r.bookingColl.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to look up booking %s: %w", id, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrStatusConflict
}

func (r *MongoBookingRepo) ClaimNights(ctx context.Context, roomID, bookingID string, nights []string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	opts := options.Update().SetUpsert(true)
	for _, night := range nights {
		filter := bson.M{"roomId": roomID, "night": night, "bookingId": bookingID}
		// Equality fields of the filter are copied into the inserted document.
		update := bson.M{"$setOnInsert": bson.M{"createdAt": now}}

		_, err := r.nightColl.UpdateOne(ctx, filter, update, opts)
		if err == nil {
			continue
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to claim night %s on room %s: %w", night, roomID, err)
		}
		// A concurrent upsert for the same booking can lose the insert race.
		var holder roomNight
		if ferr := r.nightColl.FindOne(ctx, bson.M{"roomId": roomID, "night": night}).Decode(&holder); ferr != nil {
			return fmt.Errorf("failed to read claim for night %s: %w", night, ferr)
		}
		if holder.BookingID != bookingID {
			return fmt.Errorf("%w: %s on room %s", repository.ErrNightTaken, night, roomID)
		}
	}
	return nil
}

func (r *MongoBookingRepo) ReleaseNights(ctx context.Context, bookingID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.nightColl.DeleteMany(ctx, bson.M{"bookingId": bookingID}); err != nil {
		return fmt.Errorf("failed to release nights for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *MongoBookingRepo) ListPendingBefore(ctx context.Context, createdBefore, paymentStartedBefore time.Time) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"status":    models.BookingPending,
		"createdAt": bson.M{"$lt": createdBefore},
		"$or": bson.A{
			bson.M{"paymentStartedAt": nil},
			bson.M{"paymentStartedAt": bson.M{"$lt": paymentStartedBefore}},
		},
	}
	cursor, err := r.bookingColl.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding pending bookings: %w", err)
	}
	return bookings, nil
}
