package governance

import (
	"context"
	"time"

	"limelight/db"
	"limelight/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSettingsStore keeps governance settings as one document per key.
type MongoSettingsStore struct{}

func NewMongoSettingsStore() *MongoSettingsStore {
	return &MongoSettingsStore{}
}

func (s *MongoSettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var setting models.GovernanceSetting
	err := db.SettingsCollection.FindOne(ctx, bson.M{"key": key}).Decode(&setting)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

func (s *MongoSettingsStore) Set(ctx context.Context, key, value, actorID, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.SettingsCollection.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{
			"value":     value,
			"actorId":   actorID,
			"reason":    reason,
			"updatedAt": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// MongoGovLogStore appends governance log entries; entries are never
// mutated afterwards.
type MongoGovLogStore struct{}

func NewMongoGovLogStore() *MongoGovLogStore {
	return &MongoGovLogStore{}
}

func (s *MongoGovLogStore) Append(ctx context.Context, entry models.GovernanceLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.GovernanceLogCollection.InsertOne(ctx, entry)
	return err
}

// MongoIncidentStore opens revenue incidents.
type MongoIncidentStore struct{}

func NewMongoIncidentStore() *MongoIncidentStore {
	return &MongoIncidentStore{}
}

func (s *MongoIncidentStore) Open(ctx context.Context, incident models.RevenueIncident) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.IncidentsCollection.InsertOne(ctx, incident)
	return err
}
