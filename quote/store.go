package quote

import (
	"context"
	"time"

	"limelight/db"
	"limelight/models"

	"go.mongodb.org/mongo-driver/bson"
)

// MongoRuleStore reads active pricing rules from MongoDB.
type MongoRuleStore struct{}

func NewMongoRuleStore() *MongoRuleStore {
	return &MongoRuleStore{}
}

func (s *MongoRuleStore) ActiveRules(ctx context.Context) ([]models.PricingRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := db.PricingRulesCollection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rules []models.PricingRule
	if err := cur.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// MongoAuditStore appends pricing audit entries and updates their
// conversion status once the booking outcome is known.
type MongoAuditStore struct{}

func NewMongoAuditStore() *MongoAuditStore {
	return &MongoAuditStore{}
}

func (s *MongoAuditStore) Insert(ctx context.Context, entry *models.PricingAuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.PricingAuditCollection.InsertOne(ctx, entry)
	return err
}

func (s *MongoAuditStore) UpdateStatus(ctx context.Context, auditID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.PricingAuditCollection.UpdateOne(ctx,
		bson.M{"id": auditID},
		bson.M{"$set": bson.M{"conversionStatus": status}},
	)
	return err
}
