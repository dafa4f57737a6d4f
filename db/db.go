package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	BookingsCollection      *mongo.Collection
	PricingRulesCollection  *mongo.Collection
	SettingsCollection      *mongo.Collection
	PricingAuditCollection  *mongo.Collection
	GovernanceLogCollection *mongo.Collection
	IncidentsCollection     *mongo.Collection
	NotificationsCollection *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ClientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), ClientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	BookingsCollection = Client.Database("limelightdb").Collection("bookings")
	PricingRulesCollection = Client.Database("limelightdb").Collection("pricingrules")
	SettingsCollection = Client.Database("limelightdb").Collection("settings")
	PricingAuditCollection = Client.Database("limelightdb").Collection("pricingaudit")
	GovernanceLogCollection = Client.Database("limelightdb").Collection("govlog")
	IncidentsCollection = Client.Database("limelightdb").Collection("incidents")
	NotificationsCollection = Client.Database("limelightdb").Collection("notifications")
}
