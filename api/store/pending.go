/* pending.go
 * Contains the methods for interacting with the pending_prompts collection. Each document is one disambiguation
 * group keyed by its group id
 */

package store

import (
	"context"
	"fmt"
	"time"

	"deckdump-bot/api/disambiguation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SavePending stores a pending group, replacing any stored group with the same id
// Preconditions: Receives a context and the pending group
// Postconditions: The group is stored, or an error is returned if the operation was unsuccessful
func (s *Store) SavePending(ctx context.Context, pending disambiguation.Pending) error {
	filter := bson.M{"_id": pending.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := s.Collections.Pending.ReplaceOne(ctx, filter, pending, opts); err != nil {
		return fmt.Errorf("failed to save pending prompt: %w", err)
	}
	return nil
}

// DeletePending removes a pending group. Removing a group that is not stored is not an error
func (s *Store) DeletePending(ctx context.Context, id string) error {
	if _, err := s.Collections.Pending.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete pending prompt: %w", err)
	}
	return nil
}

// LoadPending returns every stored group that has not expired at now, oldest first
// Preconditions: Receives a context and the current time
// Postconditions: Returns the open groups, or an error if the lookup failed
func (s *Store) LoadPending(ctx context.Context, now time.Time) ([]disambiguation.Pending, error) {
	filter := bson.M{"expires_at": bson.M{"$gt": now}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.Collections.Pending.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching pending prompts from db: %w", err)
	}
	defer cursor.Close(ctx)

	var results []disambiguation.Pending
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding pending prompts: %w", err)
	}
	return results, nil
}

// EnsureIndexes creates the TTL index that lets mongo drop groups once they expire
func (s *Store) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := s.Collections.Pending.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create pending prompt index: %w", err)
	}
	return nil
}
