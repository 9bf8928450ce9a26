/* match_test.go
 * Contains unit tests for models.go and match.go
 */

package cubes

import (
	"testing"

	"deckdump-bot/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCatalog builds a catalog of three cubes with overlapping card lists
func createTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(
		NewCube("Arena Cube", []string{"Shock", "Opt", "Negate"}, shared.SubmissionInfo{}, "arena"),
		NewCube("Vintage Cube", []string{"Shock", "Black Lotus", "Fire /// Ice"}, shared.SubmissionInfo{}, "vintage"),
		NewCube("Pauper Cube", []string{"Opt", "Lightning Bolt"}, shared.SubmissionInfo{}, ""),
	)
	require.NoError(t, err)
	return catalog
}

// region Cube tests

func TestCube_ContainsIgnoresBasicLands(t *testing.T) {
	cube := NewCube("Arena Cube", []string{"Shock"}, shared.SubmissionInfo{}, "")

	assert.True(t, cube.Contains([]string{"Shock", "Mountain", "Island"}))
	assert.False(t, cube.Contains([]string{"Shock", "Negate"}))
}

func TestNewCube_NormalizesCards(t *testing.T) {
	cube := NewCube("Vintage Cube", []string{"Fire /// Ice", "", "Shock"}, shared.SubmissionInfo{}, "")

	assert.Equal(t, []string{"Fire // Ice", "Shock"}, cube.Cards)
	assert.True(t, cube.Has("Fire // Ice"))
}

// endregion

// region Catalog tests

func TestNewCatalog_DuplicateName(t *testing.T) {
	_, err := NewCatalog(
		NewCube("Arena Cube", nil, shared.SubmissionInfo{}, ""),
		NewCube("Arena Cube", nil, shared.SubmissionInfo{}, ""),
	)

	assert.ErrorIs(t, err, ErrDuplicateCube)
}

func TestCatalog_NamesInOrder(t *testing.T) {
	catalog := createTestCatalog(t)

	assert.Equal(t, []string{"Arena Cube", "Vintage Cube", "Pauper Cube"}, catalog.Names())
	assert.Equal(t, 3, catalog.Len())
}

// endregion

// region Match tests

func TestMatch_SingleCube(t *testing.T) {
	catalog := createTestCatalog(t)

	assert.Equal(t, []string{"Arena Cube"}, catalog.Match([]string{"Negate", "Shock"}))
}

func TestMatch_MultipleCubesInCatalogOrder(t *testing.T) {
	catalog := createTestCatalog(t)

	assert.Equal(t, []string{"Arena Cube", "Vintage Cube"}, catalog.Match([]string{"Shock"}))
}

func TestMatch_NoCube(t *testing.T) {
	catalog := createTestCatalog(t)

	assert.Empty(t, catalog.Match([]string{"Shock", "Lightning Bolt"}))
}

func TestMatch_EmptyCatalog(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	assert.Empty(t, catalog.Match([]string{"Shock"}))
}

func TestMatch_AddingCardNeverRemovesCube(t *testing.T) {
	cards := []string{"Opt"}
	before, err := NewCatalog(NewCube("Pauper Cube", []string{"Opt"}, shared.SubmissionInfo{}, ""))
	require.NoError(t, err)
	after, err := NewCatalog(NewCube("Pauper Cube", []string{"Opt", "Shock"}, shared.SubmissionInfo{}, ""))
	require.NoError(t, err)

	assert.Equal(t, before.Match(cards), after.Match(cards))
}

// endregion

// region Lookup tests

func TestLookup(t *testing.T) {
	catalog := createTestCatalog(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"Arena Cube", "Arena Cube"},
		{"arena cube", "Arena Cube"},
		{"vintage", "Vintage Cube"},
		{"paupr", "Pauper Cube"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cube, err := catalog.Lookup(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cube.Name)
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	catalog := createTestCatalog(t)

	_, err := catalog.Lookup("legacy")

	assert.ErrorIs(t, err, ErrCubeNotFound)
}

// endregion
