package lifecycle

import (
	"context"
	"time"

	"limelight/db"
	"limelight/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingStore persists bookings in MongoDB. All writes are atomic
// single-document updates; the status filters on Confirm/Cancel make the
// transitions safe under concurrent invocation.
type MongoBookingStore struct{}

func NewMongoBookingStore() *MongoBookingStore {
	return &MongoBookingStore{}
}

func (s *MongoBookingStore) Get(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoBookingStore) Insert(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.BookingsCollection.InsertOne(ctx, b)
	return err
}

func (s *MongoBookingStore) Confirm(ctx context.Context, id, paymentIntentID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := db.BookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"status":          models.StatusConfirmed,
			"depositPaid":     true,
			"paymentIntentId": paymentIntentID,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Booking
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoBookingStore) Cancel(ctx context.Context, id, extraNotes string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Only a still-pending, unpaid booking may be cancelled by expiry.
	res := db.BookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": id, "status": models.StatusPending, "depositPaid": false},
		bson.M{"$set": bson.M{
			"status":     models.StatusCancelled,
			"extraNotes": extraNotes,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Booking
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoBookingStore) FindExpired(ctx context.Context, now int64) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, bson.M{
		"status":           models.StatusPending,
		"depositPaid":      false,
		"depositExpiresAt": bson.M{"$lt": now},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *MongoBookingStore) List(ctx context.Context, status, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if date != "" {
		filter["eventDate"] = date
	}

	cur, err := db.BookingsCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
