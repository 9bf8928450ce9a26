/* refresh.go
 * Contains the catalog maintenance logic that replaces cube card lists with the current list from CubeCobra.
 * Refreshing must not run at the same time as anything else writing the catalog document
 */

package cubes

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const refreshConcurrency = 4

// CardFetcher fetches the current card list of a cube from an external card pool provider
type CardFetcher interface {
	FetchCards(ctx context.Context, cubeCobraID string) ([]string, error)
}

// Refresh fetches new card lists for the named cubes, or every cube when no names are given
// Preconditions: Receives the current catalog, a fetcher, and optionally the exact names of cubes to refresh
// Postconditions: Returns a new catalog in the same order with the refreshed cubes replaced, or an error if a name
// is unknown, a cube has no CubeCobra id, or any fetch fails. The input catalog is not modified
func Refresh(ctx context.Context, catalog *Catalog, fetcher CardFetcher, names ...string) (*Catalog, error) {
	if len(names) == 0 {
		names = catalog.Names()
	}

	targets := make(map[string]*Cube, len(names))
	for _, name := range names {
		cube, ok := catalog.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCubeNotFound, name)
		}
		if cube.CubeCobraID == "" {
			return nil, fmt.Errorf("cube %s has no cube_cobra_id", name)
		}
		targets[name] = cube
	}

	refreshed := make(map[string]*Cube, len(targets))
	results := make(chan *Cube, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, cube := range targets {
		g.Go(func() error {
			cards, err := fetcher.FetchCards(gctx, cube.CubeCobraID)
			if err != nil {
				return fmt.Errorf("refresh cube %s: %w", cube.Name, err)
			}
			results <- NewCube(cube.Name, cards, cube.SubmissionInfo, cube.CubeCobraID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)
	for cube := range results {
		refreshed[cube.Name] = cube
	}

	next := make([]*Cube, 0, catalog.Len())
	for _, cube := range catalog.Cubes() {
		if replacement, ok := refreshed[cube.Name]; ok {
			next = append(next, replacement)
			continue
		}
		next = append(next, cube)
	}
	return NewCatalog(next...)
}
