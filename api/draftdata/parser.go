/* parser.go
 * Contains the logic for classifying a submission and parsing Arena style deck exports
 */

package draftdata

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// section is the part of a deck export the parser is currently reading
type section int

const (
	sectionMaindeck section = iota
	sectionSideboard
	sectionCompanion
	sectionCommander
)

var sectionHeaders = map[string]section{
	"Deck":      sectionMaindeck,
	"Sideboard": sectionSideboard,
	"Companion": sectionCompanion,
	"Commander": sectionCommander,
}

var (
	cardLineRegex = regexp.MustCompile(`^1 ([^(]+)`)
	slashRunRegex = regexp.MustCompile(`\s*/{2,}\s*`)
)

var basicLands = map[string]struct{}{
	"Plains":   {},
	"Island":   {},
	"Swamp":    {},
	"Mountain": {},
	"Forest":   {},
}

// IsBasicLand reports whether name is one of the five basic lands
func IsBasicLand(name string) bool {
	_, ok := basicLands[name]
	return ok
}

// NormalizeCardName rewrites every slash separator of split and adventure cards to the canonical " // " form.
// Normalizing an already normalized name returns it unchanged
func NormalizeCardName(name string) string {
	parts := slashRunRegex.Split(strings.TrimSpace(name), -1)
	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " // ")
}

// Parse classifies a decoded submission by its first non-empty character and parses it
// Preconditions: Receives the decoded text, the submitter's name and the time the submission was posted
// Postconditions: Returns a deck Record for "C" or "D", a draft log Record for "{", or an UnrecognizedFormatError.
// Draft logs carry the timestamp recorded in the log rather than postedAt
func Parse(text string, submitter string, postedAt time.Time) (Record, error) {
	body := trimLeading(text)
	first, _ := utf8.DecodeRuneInString(body)

	switch {
	case body == "":
		return Record{}, &UnrecognizedFormatError{}
	case first == 'C' || first == 'D':
		deck := ParseDeck(body)
		return Record{
			Kind:      KindDeck,
			Submitter: submitter,
			Timestamp: FormatTimestamp(postedAt),
			Deck:      &deck,
		}, nil
	case first == '{':
		log, loggedAt, err := ParseDraftLog(body)
		if err != nil {
			return Record{}, err
		}
		return Record{
			Kind:      KindDraftLog,
			Submitter: submitter,
			Timestamp: FormatTimestamp(loggedAt),
			DraftLog:  &log,
		}, nil
	default:
		return Record{}, &UnrecognizedFormatError{Char: string(first)}
	}
}

// ParseDeck parses an Arena deck export. Only lines with a quantity of exactly 1 are read; headers switch the
// section the following cards are added to, and every other line is ignored
func ParseDeck(text string) Deck {
	var deck Deck
	current := sectionMaindeck

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if next, ok := sectionHeaders[line]; ok {
			current = next
			continue
		}

		match := cardLineRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name := NormalizeCardName(match[1])
		if name == "" || IsBasicLand(name) {
			continue
		}

		switch current {
		case sectionMaindeck:
			deck.Maindeck = append(deck.Maindeck, name)
		case sectionSideboard:
			// Arena lists the companion in the sideboard as well
			if name != deck.Companion && name != deck.Commander {
				deck.Sideboard = append(deck.Sideboard, name)
			}
		case sectionCompanion:
			deck.Companion = name
			deck.Sideboard = removeCard(deck.Sideboard, name)
		case sectionCommander:
			deck.Commander = name
			deck.Sideboard = removeCard(deck.Sideboard, name)
		}
	}
	return deck
}

// removeCard drops every copy of name from cards
func removeCard(cards []string, name string) []string {
	return slices.DeleteFunc(cards, func(card string) bool { return card == name })
}

func trimLeading(text string) string {
	return strings.TrimLeftFunc(strings.TrimPrefix(text, "\uFEFF"), unicode.IsSpace)
}
