/* rows.go
 * Contains the logic for turning a Record into the spreadsheet rows written for a cube
 */

package draftdata

import (
	"strconv"

	"deckdump-bot/api/shared"
)

// Rows returns the write requests that persist the record to a cube's spreadsheet.
// Requests with an empty destination are still returned; writers treat them as no-ops
func (r Record) Rows(info shared.SubmissionInfo) []shared.SheetWriteRequest {
	switch r.Kind {
	case KindDeck:
		if r.Deck == nil {
			return nil
		}
		return deckRows(r.Submitter, r.Timestamp, r.WinCount, *r.Deck, info)
	case KindDraftLog:
		if r.DraftLog == nil {
			return nil
		}
		return draftLogRows(r.Timestamp, *r.DraftLog, info)
	default:
		return nil
	}
}

// deckRows writes the maindeck with placeholders for colours and record, and the sideboard without them.
// Commanders are left out since submissions with a commander are rejected before they get here
func deckRows(submitter, timestamp string, winCount *int, deck Deck, info shared.SubmissionInfo) []shared.SheetWriteRequest {
	record := ""
	if winCount != nil {
		record = strconv.Itoa(*winCount)
	}

	maindeck := append([]string{submitter, "", record, deck.Companion, timestamp}, deck.Maindeck...)
	sideboard := append([]string{submitter, timestamp}, deck.Sideboard...)

	return []shared.SheetWriteRequest{
		{Rows: [][]string{maindeck}, Destination: info.MaindeckSink()},
		{Rows: [][]string{sideboard}, Destination: info.SideboardSink()},
	}
}

// draftLogRows writes one row per seat followed by a blank separator row, then the deck rows of every embedded
// decklist
func draftLogRows(timestamp string, log DraftLog, info shared.SubmissionInfo) []shared.SheetWriteRequest {
	rows := make([][]string, 0, len(log.Players)+1)
	for _, player := range log.Players {
		rows = append(rows, append([]string{timestamp, player.Name}, player.Picks...))
	}
	rows = append(rows, []string{""})

	requests := []shared.SheetWriteRequest{{Rows: rows, Destination: info.DraftLogSink()}}
	for _, playerDeck := range log.DeckLists {
		requests = append(requests, deckRows(playerDeck.Player, timestamp, nil, playerDeck.Deck, info)...)
	}
	return requests
}
