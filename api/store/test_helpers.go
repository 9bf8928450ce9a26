/* test_helpers.go
 * Contains test helper functions for store package tests
 */

package store

import (
	"time"

	"deckdump-bot/api/disambiguation"
	"deckdump-bot/api/draftdata"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewTestStore creates a Store around an existing collection, such as an mtest mock collection
func NewTestStore(client *mongo.Client, db *mongo.Database, coll *mongo.Collection) *Store {
	return &Store{
		Client:   client,
		Database: db,
		Collections: struct {
			Pending *mongo.Collection
		}{
			Pending: coll,
		},
	}
}

// CreateSamplePending creates sample pending group data for testing.
func CreateSamplePending(id string, submitter string, createdAt time.Time) disambiguation.Pending {
	winCount := 2
	return disambiguation.Pending{
		ID:        id,
		Submitter: submitter,
		PromptIDs: []string{id},
		Pages:     disambiguation.Paginate([]string{"Arena Cube", "Vintage Cube"}),
		Record: draftdata.Record{
			Kind:      draftdata.KindDeck,
			Submitter: submitter,
			Timestamp: draftdata.FormatTimestamp(createdAt),
			WinCount:  &winCount,
			Deck: &draftdata.Deck{
				Maindeck:  []string{"Shock", "Opt"},
				Sideboard: []string{"Negate"},
			},
		},
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(24 * time.Hour),
	}
}

// pendingDocument converts a pending group into the document mongo would return for it
func pendingDocument(pending disambiguation.Pending) (bson.D, error) {
	raw, err := bson.Marshal(pending)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
