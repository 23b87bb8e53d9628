package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func DBInstance() *mongo.Client {
	// Handlers read collections at package init, so the .env load has to
	// happen here rather than in main.
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found, relying on environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	// Connect is lazy: no dial happens until the first operation. main calls
	// Ping before serving so a bad URI still fails fast.
	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}

	return client
}

var Client *mongo.Client = DBInstance()

// Ping verifies the deployment is reachable.
func Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return Client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func OpenCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "caskai"
	}
	return client.Database(dbName).Collection(collectionName)
}
