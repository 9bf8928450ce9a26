/* match.go
 * Contains the logic for matching a card list against the catalog, and for looking up cubes by a typed name
 */

package cubes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match returns the names of every cube that contains all of the given cards, in catalog order
func (c *Catalog) Match(cards []string) []string {
	var matches []string
	for _, name := range c.names {
		if c.cubes[name].Contains(cards) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Lookup finds a cube from a name typed by a user. An exact or case-insensitive match wins, otherwise the closest
// fuzzy match is returned
// Preconditions: Receives the name to find
// Postconditions: Returns the matching cube, or ErrCubeNotFound if no cube name is close
func (c *Catalog) Lookup(name string) (*Cube, error) {
	if cube, ok := c.cubes[name]; ok {
		return cube, nil
	}
	for _, candidate := range c.names {
		if strings.EqualFold(candidate, name) {
			return c.cubes[candidate], nil
		}
	}

	ranks := fuzzy.RankFindFold(name, c.names)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCubeNotFound, name)
	}
	sort.Sort(ranks)
	return c.cubes[ranks[0].Target], nil
}
