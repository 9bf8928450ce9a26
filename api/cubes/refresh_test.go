/* refresh_test.go
 * Contains unit tests for refresh.go
 */

package cubes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher returns canned card lists keyed by CubeCobra id
type mockFetcher struct {
	mu    sync.Mutex
	cards map[string][]string
	err   error
	calls []string
}

func (m *mockFetcher) FetchCards(ctx context.Context, cubeCobraID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, cubeCobraID)
	if m.err != nil {
		return nil, m.err
	}
	return m.cards[cubeCobraID], nil
}

func TestRefresh_NamedCube(t *testing.T) {
	catalog := createTestCatalog(t)
	fetcher := &mockFetcher{cards: map[string][]string{"arena": {"Shock", "Duress"}}}

	refreshed, err := Refresh(context.Background(), catalog, fetcher, "Arena Cube")

	require.NoError(t, err)
	assert.Equal(t, []string{"arena"}, fetcher.calls)
	arena, _ := refreshed.Get("Arena Cube")
	assert.Equal(t, []string{"Shock", "Duress"}, arena.Cards)
	assert.Equal(t, catalog.Names(), refreshed.Names())

	// the input catalog is untouched
	before, _ := catalog.Get("Arena Cube")
	assert.Equal(t, []string{"Shock", "Opt", "Negate"}, before.Cards)
}

func TestRefresh_AllCubesRequireCubeCobraID(t *testing.T) {
	catalog := createTestCatalog(t)
	fetcher := &mockFetcher{}

	_, err := Refresh(context.Background(), catalog, fetcher)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pauper Cube")
	assert.Empty(t, fetcher.calls)
}

func TestRefresh_UnknownCube(t *testing.T) {
	catalog := createTestCatalog(t)

	_, err := Refresh(context.Background(), catalog, &mockFetcher{}, "Legacy Cube")

	assert.ErrorIs(t, err, ErrCubeNotFound)
}

func TestRefresh_FetchError(t *testing.T) {
	catalog := createTestCatalog(t)
	fetchErr := errors.New("boom")

	_, err := Refresh(context.Background(), catalog, &mockFetcher{err: fetchErr}, "Arena Cube", "Vintage Cube")

	assert.ErrorIs(t, err, fetchErr)
}
