/* store.go
 * Contains the store struct and NewStore function. The methods for the pending prompt collection live in pending.go
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Pending *mongo.Collection
	}
}

// Function for initialising Store. Connects to the db and sets the collection values
// Preconditions: Receives a context and strings containing dbName and mongoURI
// Postconditions: Returns pointer to the Store object, or error if the connection could not be made
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName or mongoURI cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(dbName)

	return &Store{
		Client:   client,
		Database: db,
		Collections: struct {
			Pending *mongo.Collection
		}{
			Pending: db.Collection("pending_prompts"),
		},
	}, nil
}

// Close disconnects the mongo client
func (s *Store) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
