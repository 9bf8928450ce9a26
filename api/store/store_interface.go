/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"

	"deckdump-bot/api/disambiguation"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	disambiguation.Store
	EnsureIndexes(ctx context.Context) error
	Close(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
