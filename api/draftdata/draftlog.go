/* draftlog.go
 * Contains the logic for parsing draft logs downloaded from the draft website. A log is a JSON document with the
 * draft start time, the seated users and optionally the card data used by each user's decklist
 */

package draftdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ParseDraftLog parses a JSON draft log
// Preconditions: Receives the decoded log text
// Postconditions: Returns every player's picks in document order, any decklists embedded in the log, and the time
// the draft was logged. A single bad player entry aborts the whole log with a MalformedDraftLogError
func ParseDraftLog(text string) (DraftLog, time.Time, error) {
	if !gjson.Valid(text) {
		return DraftLog{}, time.Time{}, &MalformedDraftLogError{Err: errInvalidJSON}
	}
	doc := gjson.Parse(text)

	millis, ok := logTime(doc.Get("time"))
	if !ok {
		return DraftLog{}, time.Time{}, &MalformedDraftLogError{Err: errMissingTime}
	}
	loggedAt := time.UnixMilli(millis).UTC()

	users := doc.Get("users")
	if !users.IsObject() {
		return DraftLog{}, time.Time{}, &MalformedDraftLogError{Err: errMissingUsers}
	}
	cardData := doc.Get("carddata").Map()

	var log DraftLog
	var parseErr error
	// ForEach visits object members in document order
	users.ForEach(func(_, user gjson.Result) bool {
		name := user.Get("userName").String()

		export := user.Get("exportString")
		if !export.Exists() {
			parseErr = &MalformedDraftLogError{Player: name, Err: errMissingExport}
			return false
		}
		if export.Type != gjson.String {
			parseErr = &MalformedDraftLogError{Player: name, Err: errExportNotString}
			return false
		}
		picks := ParseDeck(trimLeading(export.Str)).Maindeck
		log.Players = append(log.Players, PlayerPicks{Name: name, Picks: picks})

		if decklist := user.Get("decklist"); decklist.Exists() {
			deck, err := resolveDeckList(decklist, cardData)
			if err != nil {
				parseErr = &MalformedDraftLogError{Player: name, Err: err}
				return false
			}
			log.DeckLists = append(log.DeckLists, PlayerDeck{Player: name, Deck: deck})
		}
		return true
	})
	if parseErr != nil {
		return DraftLog{}, time.Time{}, parseErr
	}

	return log, loggedAt, nil
}

// logTime reads the draft time in milliseconds. Some exports write it as a string
func logTime(value gjson.Result) (int64, bool) {
	switch value.Type {
	case gjson.Number:
		return value.Int(), true
	case gjson.String:
		millis, err := strconv.ParseInt(strings.TrimSpace(value.Str), 10, 64)
		return millis, err == nil
	default:
		return 0, false
	}
}

// resolveDeckList turns the main and side card id arrays of a decklist into card names using the log's carddata
func resolveDeckList(decklist gjson.Result, cardData map[string]gjson.Result) (Deck, error) {
	var deck Deck
	var err error
	deck.Maindeck, err = resolveCardIDs(decklist.Get("main"), cardData)
	if err != nil {
		return Deck{}, fmt.Errorf("decklist main: %w", err)
	}
	deck.Sideboard, err = resolveCardIDs(decklist.Get("side"), cardData)
	if err != nil {
		return Deck{}, fmt.Errorf("decklist side: %w", err)
	}
	return deck, nil
}

func resolveCardIDs(ids gjson.Result, cardData map[string]gjson.Result) ([]string, error) {
	if !ids.Exists() {
		return nil, nil
	}
	if !ids.IsArray() {
		return nil, fmt.Errorf("expected an array of card ids")
	}

	var names []string
	for _, id := range ids.Array() {
		card, ok := cardData[id.String()]
		if !ok {
			return nil, fmt.Errorf("unknown card id %q", id.String())
		}
		name := NormalizeCardName(card.Get("name").String())
		if name == "" {
			return nil, fmt.Errorf("card id %q has no name", id.String())
		}
		if IsBasicLand(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
