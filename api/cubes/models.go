/* models.go
 * This file contains the Cube and Catalog types. A Catalog is the ordered set of cubes the bot knows about together
 * with the spreadsheet locations each cube's submissions are saved to
 */

package cubes

import (
	"errors"
	"fmt"

	"deckdump-bot/api/draftdata"
	"deckdump-bot/api/shared"
)

var (
	ErrCubeNotFound  = errors.New("cube not found")
	ErrDuplicateCube = errors.New("duplicate cube name")
)

// Cube is a named card pool. Its card list does not change after it is built
type Cube struct {
	Name           string
	Cards          []string
	SubmissionInfo shared.SubmissionInfo
	CubeCobraID    string

	set map[string]struct{}
}

// NewCube builds a cube, normalizing card names the same way submissions are normalized
func NewCube(name string, cards []string, info shared.SubmissionInfo, cubeCobraID string) *Cube {
	cube := &Cube{
		Name:           name,
		Cards:          make([]string, 0, len(cards)),
		SubmissionInfo: info,
		CubeCobraID:    cubeCobraID,
		set:            make(map[string]struct{}, len(cards)),
	}
	for _, card := range cards {
		card = draftdata.NormalizeCardName(card)
		if card == "" {
			continue
		}
		cube.Cards = append(cube.Cards, card)
		cube.set[card] = struct{}{}
	}
	return cube
}

// Has reports whether card is in the cube
func (c *Cube) Has(card string) bool {
	_, ok := c.set[card]
	return ok
}

// Contains reports whether every card in cards is in the cube. Basic lands are available to every cube and are
// not checked
func (c *Cube) Contains(cards []string) bool {
	for _, card := range cards {
		if draftdata.IsBasicLand(card) {
			continue
		}
		if !c.Has(card) {
			return false
		}
	}
	return true
}

// Catalog is an ordered collection of uniquely named cubes. It is read only once built
type Catalog struct {
	names []string
	cubes map[string]*Cube
}

// NewCatalog builds a catalog that iterates in the order the cubes are given
func NewCatalog(cubes ...*Cube) (*Catalog, error) {
	catalog := &Catalog{
		names: make([]string, 0, len(cubes)),
		cubes: make(map[string]*Cube, len(cubes)),
	}
	for _, cube := range cubes {
		if _, exists := catalog.cubes[cube.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCube, cube.Name)
		}
		catalog.names = append(catalog.names, cube.Name)
		catalog.cubes[cube.Name] = cube
	}
	return catalog, nil
}

// Names returns the cube names in catalog order
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Cubes returns the cubes in catalog order
func (c *Catalog) Cubes() []*Cube {
	cubes := make([]*Cube, 0, len(c.names))
	for _, name := range c.names {
		cubes = append(cubes, c.cubes[name])
	}
	return cubes
}

// Get returns the cube with exactly the given name
func (c *Catalog) Get(name string) (*Cube, bool) {
	cube, ok := c.cubes[name]
	return cube, ok
}

// Len returns the number of cubes in the catalog
func (c *Catalog) Len() int {
	return len(c.names)
}
