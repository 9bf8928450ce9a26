/* models.go
 * This file contains the prompt types used when a submission matches more or fewer than one cube and the submitter
 * has to pick the cube by reacting to a direct message
 */

package disambiguation

import (
	"errors"
	"time"

	"deckdump-bot/api/draftdata"
)

// Selectors are the reactions offered on a prompt page, in display order
var Selectors = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣"}

// PageSize is the number of pools offered on one prompt page
const PageSize = 5

var (
	ErrPromptExists   = errors.New("prompt already registered")
	ErrInvalidPending = errors.New("invalid pending prompt")
)

// Choice pairs a reaction with the cube it stands for
type Choice struct {
	Selector string `bson:"selector"`
	Pool     string `bson:"pool"`
}

// Page is the ordered set of choices shown on a single prompt message
type Page struct {
	Choices []Choice `bson:"choices"`
}

// Pool returns the cube name bound to selector on this page
func (p Page) Pool(selector string) (string, bool) {
	for _, choice := range p.Choices {
		if choice.Selector == selector {
			return choice.Pool, true
		}
	}
	return "", false
}

// Selectors returns the reactions used on this page, in order
func (p Page) Selectors() []string {
	selectors := make([]string, 0, len(p.Choices))
	for _, choice := range p.Choices {
		selectors = append(selectors, choice.Selector)
	}
	return selectors
}

// Pending is one submission waiting on its submitter to choose a cube. PromptIDs[i] is the message showing Pages[i]
type Pending struct {
	ID        string           `bson:"_id"`
	Submitter string           `bson:"submitter"`
	PromptIDs []string         `bson:"prompt_ids"`
	Pages     []Page           `bson:"pages"`
	Record    draftdata.Record `bson:"record"`
	CreatedAt time.Time        `bson:"created_at"`
	ExpiresAt time.Time        `bson:"expires_at"`
}

// Expired reports whether the prompt can no longer be answered at now
func (p *Pending) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// page returns the page shown on the given prompt message
func (p *Pending) page(promptID string) (Page, bool) {
	for i, id := range p.PromptIDs {
		if id == promptID {
			return p.Pages[i], true
		}
	}
	return Page{}, false
}

// Resolution is the outcome of a submitter choosing a cube
type Resolution struct {
	Pending Pending
	Pool    string
}

// Paginate lays pools out over as many pages as needed, PageSize choices per page, keeping their order
func Paginate(pools []string) []Page {
	var pages []Page
	for start := 0; start < len(pools); start += PageSize {
		end := min(start+PageSize, len(pools))
		page := Page{Choices: make([]Choice, 0, end-start)}
		for i, pool := range pools[start:end] {
			page.Choices = append(page.Choices, Choice{Selector: Selectors[i], Pool: pool})
		}
		pages = append(pages, page)
	}
	return pages
}

// Options returns the pools a submitter should choose from. With no match every cube is offered, otherwise the
// matches are offered in the order given
func Options(all []string, matches []string) []string {
	if len(matches) == 0 {
		return append([]string(nil), all...)
	}
	return append([]string(nil), matches...)
}
