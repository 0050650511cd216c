package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the process-wide MongoDB client. It stays nil in local-only
// mode (missing or malformed MONGO_URI) and every remote-facing operation
// must tolerate that.
var MongoClient *mongo.Client

// ValidStoreConfig rejects values that commonly leak out of templated env
// files: empty strings and the literals "undefined" and "null".
func ValidStoreConfig(values ...string) bool {
	for _, v := range values {
		switch v {
		case "", "undefined", "null":
			return false
		}
	}
	return true
}

// InitMongoClient connects the global client. Instead of crashing on missing
// configuration it leaves MongoClient nil and lets the server come up in
// local-only mode.
func InitMongoClient(uri string, maxPoolSize, minPoolSize uint64, maxConnIdleTime time.Duration, retryWrites bool) {
	if !ValidStoreConfig(uri) {
		log.Println("MONGO_URI is not set; Bloom is running in local-only mode, remote persistence disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetMaxConnIdleTime(maxConnIdleTime).
		SetRetryWrites(retryWrites).
		SetPoolMonitor(MongoPoolMonitor())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Printf("Failed to connect to MongoDB: %v; continuing in local-only mode", err)
		return
	}

	MongoClient = client
}
