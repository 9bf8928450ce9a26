/* commands_test.go
 * Contains unit tests for the cubes CLI subcommands
 */

package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"deckdump-bot/api/cubes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `{
    "Vintage Cube": {
        "cards": ["Black Lotus", "Shock"],
        "submission_info": {"spreadsheet_id": "sheet-v", "maindeck": "Decks!A1", "sideboard": "", "draftlog": ""},
        "cube_cobra_id": "vintage"
    },
    "Arena Cube": {
        "cards": ["Shock", "Opt"],
        "submission_info": {"spreadsheet_id": "sheet-a", "maindeck": "Decks!A1", "sideboard": "", "draftlog": ""}
    }
}`

// writeFile writes content to name inside dir and returns the path
func writeFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI executes the root command with args and returns what it printed
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// region list tests

func TestList(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "cubes.json", testCatalog)

	out, err := runCLI(t, "list", "--cubes", catalogPath)

	require.NoError(t, err)
	assert.Equal(t, "Vintage Cube\t2 cards\tvintage\nArena Cube\t2 cards\t-\n", out)
}

func TestList_MissingCatalog(t *testing.T) {
	_, err := runCLI(t, "list", "--cubes", filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, err)
}

// endregion

// region match tests

func TestMatch(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "cubes.json", testCatalog)

	tests := []struct {
		name     string
		deck     string
		expected string
	}{
		{"both cubes", "Deck\n1 Shock\n1 Mountain\n", "Vintage Cube\nArena Cube\n"},
		{"one cube", "Deck\n1 Opt\n", "Arena Cube\n"},
		{"no cube", "Deck\n1 Counterspell\n", "No cube contains every card in this deck\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deckPath := writeFile(t, dir, "deck.txt", tt.deck)

			out, err := runCLI(t, "match", deckPath, "--cubes", catalogPath)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestMatch_UnrecognizedFile(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "cubes.json", testCatalog)
	deckPath := writeFile(t, dir, "notes.txt", "hello there")

	_, err := runCLI(t, "match", deckPath, "--cubes", catalogPath)

	assert.Error(t, err)
}

func TestMatch_RequiresFile(t *testing.T) {
	_, err := runCLI(t, "match")

	assert.Error(t, err)
}

// endregion

// region parse tests

func TestParse_Deck(t *testing.T) {
	deckPath := writeFile(t, t.TempDir(), "deck.txt", "Deck\n1 Shock\n1 Opt\nSideboard\n1 Negate\n")

	out, err := runCLI(t, "parse", deckPath)

	require.NoError(t, err)
	assert.Contains(t, out, "Maindeck (2): Shock, Opt\n")
	assert.Contains(t, out, "Sideboard (1): Negate\n")
}

// endregion

// region refresh tests

func TestRefresh_NamedCube(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cube/download/plaintext/vintage" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "Black Lotus\nAncestral Recall\nTime Walk\n")
	}))
	defer server.Close()
	catalogPath := writeFile(t, t.TempDir(), "cubes.json", testCatalog)

	out, err := runCLI(t, "refresh", "vintage", "--cubes", catalogPath, "--cubecobra", server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Refreshed Vintage Cube (3 cards)\n", out)

	saved, err := cubes.Load(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vintage Cube", "Arena Cube"}, saved.Names())
	vintage, _ := saved.Get("Vintage Cube")
	assert.Equal(t, []string{"Black Lotus", "Ancestral Recall", "Time Walk"}, vintage.Cards)
	arena, _ := saved.Get("Arena Cube")
	assert.Equal(t, []string{"Shock", "Opt"}, arena.Cards)
}

func TestRefresh_AllCubesNeedIDs(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "cubes.json", testCatalog)
	before, err := os.ReadFile(catalogPath)
	require.NoError(t, err)

	_, err = runCLI(t, "refresh", "--cubes", catalogPath, "--cubecobra", "http://127.0.0.1:1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Arena Cube")
	after, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRefresh_UnknownCube(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "cubes.json", testCatalog)

	_, err := runCLI(t, "refresh", "legacy", "--cubes", catalogPath)

	assert.ErrorIs(t, err, cubes.ErrCubeNotFound)
}

// endregion
