/* models.go
 * This file contain the interfaces, structs and helper functions that are used by api consumers
 */

package api

import (
	"context"
	"errors"
	"time"

	"deckdump-bot/api/disambiguation"
	"deckdump-bot/api/draftdata"
	"deckdump-bot/api/shared"
)

var (
	ErrEmptyAttachment = errors.New("attachment is empty")
	ErrCommanderFormat = errors.New("commander decks are not accepted")
	ErrNoCubes         = errors.New("no cubes are configured")
	ErrPersistFailed   = errors.New("failed to save submission")
)

// SheetWriter appends rows to a spreadsheet
type SheetWriter interface {
	Append(ctx context.Context, request shared.SheetWriteRequest) error
}

// Submission is one attachment posted by a user
type Submission struct {
	Author      shared.User
	Timestamp   time.Time
	Content     string
	Data        []byte
	Size        int
	ContentType string
}

// Outcome is the result of a submission that was accepted. Either Cube is set and the record was saved, or Pages
// holds the prompt the submitter must answer
type Outcome struct {
	Record  draftdata.Record
	Cube    string
	Matches []string
	Pages   []disambiguation.Page
}

// Persisted reports whether the record was saved without asking the submitter
func (o Outcome) Persisted() bool {
	return o.Cube != ""
}
