/* models.go
 * This file contains the SubmissionRecord types produced by the parser. A Record is a tagged union over a deck
 * and a draft log; behaviour that differs between the two dispatches on Kind
 */

package draftdata

import (
	"time"
)

// Kind tags which variant a Record holds
type Kind string

const (
	KindDeck     Kind = "deck"
	KindDraftLog Kind = "draftlog"
)

// TimestampLayout is the format every record timestamp is written in
const TimestampLayout = "2006-01-02 15:04"

// Record is a parsed submission. Exactly one of Deck or DraftLog is set, matching Kind
type Record struct {
	Kind      Kind      `bson:"kind"`
	Submitter string    `bson:"submitter"`
	Timestamp string    `bson:"timestamp"`
	WinCount  *int      `bson:"win_count,omitempty"`
	Deck      *Deck     `bson:"deck,omitempty"`
	DraftLog  *DraftLog `bson:"draft_log,omitempty"`
}

// Deck is a single constructed card selection. Card order is file order
type Deck struct {
	Maindeck  []string `bson:"maindeck"`
	Sideboard []string `bson:"sideboard"`
	Companion string   `bson:"companion,omitempty"`
	Commander string   `bson:"commander,omitempty"`
}

// DraftLog holds the picks of every player in a draft, in document order
type DraftLog struct {
	Players   []PlayerPicks `bson:"players"`
	DeckLists []PlayerDeck  `bson:"deck_lists,omitempty"`
}

// PlayerPicks is one seat of a draft log
type PlayerPicks struct {
	Name  string   `bson:"name"`
	Picks []string `bson:"picks"`
}

// PlayerDeck is a deck rebuilt from the machine readable decklist embedded in a draft log
type PlayerDeck struct {
	Player string `bson:"player"`
	Deck   Deck   `bson:"deck"`
}

// FormatTimestamp formats t in the shared record timestamp format (UTC)
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CardList returns every card in the record that takes part in cube matching
func (r Record) CardList() []string {
	switch r.Kind {
	case KindDeck:
		if r.Deck == nil {
			return nil
		}
		return r.Deck.CardList()
	case KindDraftLog:
		if r.DraftLog == nil {
			return nil
		}
		var cards []string
		for _, player := range r.DraftLog.Players {
			cards = append(cards, player.Picks...)
		}
		return cards
	default:
		return nil
	}
}

// CardList returns maindeck, sideboard, companion and commander cards
func (d Deck) CardList() []string {
	cards := make([]string, 0, len(d.Maindeck)+len(d.Sideboard)+2)
	cards = append(cards, d.Maindeck...)
	cards = append(cards, d.Sideboard...)
	if d.Companion != "" {
		cards = append(cards, d.Companion)
	}
	if d.Commander != "" {
		cards = append(cards, d.Commander)
	}
	return cards
}

// Describe returns a short human readable name for the record kind
func (r Record) Describe() string {
	if r.Kind == KindDraftLog {
		return "draft log"
	}
	return "deck"
}
