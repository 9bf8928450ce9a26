/* test_mocks.go
 * Contains mock structures for testing the API package
 */

package api

import (
	"context"
	"sync"

	"deckdump-bot/api/cubes"
	"deckdump-bot/api/shared"
)

// MockSheetWriter records every append request in memory
type MockSheetWriter struct {
	mu       sync.Mutex
	Requests []shared.SheetWriteRequest

	// Error injection for testing error paths
	AppendError error
	FailAfter   int
}

// Append mock implementation. When AppendError is set, the first FailAfter requests succeed and the rest fail
func (m *MockSheetWriter) Append(ctx context.Context, request shared.SheetWriteRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendError != nil && len(m.Requests) >= m.FailAfter {
		return m.AppendError
	}
	m.Requests = append(m.Requests, request)
	return nil
}

// Written returns a copy of the recorded requests
func (m *MockSheetWriter) Written() []shared.SheetWriteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]shared.SheetWriteRequest(nil), m.Requests...)
}

// MockFetcher returns canned card lists keyed by CubeCobra id
type MockFetcher struct {
	Cards map[string][]string
	Err   error
}

// FetchCards mock implementation
func (m *MockFetcher) FetchCards(ctx context.Context, cubeCobraID string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Cards[cubeCobraID], nil
}

var _ SheetWriter = (*MockSheetWriter)(nil)
var _ cubes.CardFetcher = (*MockFetcher)(nil)
