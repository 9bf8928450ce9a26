/* api.go
 * This file contains the public methods for interacting with this package. The bot only talks to the cubes,
 * draftdata and disambiguation packages through these methods
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"deckdump-bot/api/cubes"
	"deckdump-bot/api/disambiguation"
	"deckdump-bot/api/draftdata"
	"deckdump-bot/api/shared"

	"github.com/google/logger"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// API runs the submission pipeline: decode, parse, match and then either save or prompt
type API struct {
	mu        sync.RWMutex
	refreshMu sync.Mutex
	catalog   *cubes.Catalog

	Sheets  SheetWriter
	Prompts *disambiguation.Coordinator
}

// NewAPI creates a new API instance around a loaded catalog
func NewAPI(catalog *cubes.Catalog, sheets SheetWriter, prompts *disambiguation.Coordinator) (*API, error) {
	if catalog == nil || sheets == nil || prompts == nil {
		return nil, fmt.Errorf("catalog, sheets and prompts are required")
	}
	return &API{
		catalog: catalog,
		Sheets:  sheets,
		Prompts: prompts,
	}, nil
}

// Catalog returns the catalog submissions are currently matched against
func (a *API) Catalog() *cubes.Catalog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.catalog
}

// SetCatalog replaces the catalog. Submissions already being matched keep the catalog they started with
func (a *API) SetCatalog(catalog *cubes.Catalog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalog = catalog
}

// Submit runs a single attachment through the pipeline
// Preconditions: Receives a context and the submission
// Postconditions: Returns an outcome that is either persisted to its only matching cube or carries the prompt pages
// for the submitter. Returns ErrEmptyAttachment, ErrCommanderFormat, a parse error, ErrNoCubes, or ErrPersistFailed
func (a *API) Submit(ctx context.Context, submission Submission) (Outcome, error) {
	if submission.Size == 0 || len(submission.Data) == 0 {
		return Outcome{}, ErrEmptyAttachment
	}

	text, err := Decode(submission.Data, submission.ContentType)
	if err != nil {
		return Outcome{}, err
	}

	record, err := draftdata.Parse(text, submission.Author.Username, submission.Timestamp)
	if err != nil {
		return Outcome{}, err
	}
	if record.Kind == draftdata.KindDeck {
		if record.Deck.Commander != "" {
			return Outcome{}, ErrCommanderFormat
		}
		record.WinCount = draftdata.ParseWinCount(submission.Content)
	}

	catalog := a.Catalog()
	matches := catalog.Match(record.CardList())
	outcome := Outcome{Record: record, Matches: matches}

	if len(matches) == 1 {
		if err := a.persist(ctx, catalog, record, matches[0]); err != nil {
			return outcome, err
		}
		outcome.Cube = matches[0]
		return outcome, nil
	}

	options := disambiguation.Options(catalog.Names(), matches)
	if len(options) == 0 {
		return outcome, ErrNoCubes
	}
	outcome.Pages = disambiguation.Paginate(options)
	return outcome, nil
}

// Persist writes the rows of a record to the spreadsheet locations of the named cube
// Preconditions: Receives a context, the record and the exact cube name
// Postconditions: Every non empty write request is appended in order. Stops at the first failed write and returns
// it wrapped in ErrPersistFailed
func (a *API) Persist(ctx context.Context, record draftdata.Record, cubeName string) error {
	return a.persist(ctx, a.Catalog(), record, cubeName)
}

func (a *API) persist(ctx context.Context, catalog *cubes.Catalog, record draftdata.Record, cubeName string) error {
	cube, ok := catalog.Get(cubeName)
	if !ok {
		return fmt.Errorf("%w: %w: %s", ErrPersistFailed, cubes.ErrCubeNotFound, cubeName)
	}

	for _, request := range record.Rows(cube.SubmissionInfo) {
		if request.NoOp() {
			continue
		}
		if err := a.Sheets.Append(ctx, request); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistFailed, err)
		}
	}
	return nil
}

// OpenPrompt registers the prompt messages sent to the submitter for an unresolved outcome
// Preconditions: Receives the submitter, the outcome returned by Submit and one message id per page, in page order
// Postconditions: Returns the registered group, or an error if the prompt could not be registered
func (a *API) OpenPrompt(ctx context.Context, author shared.User, outcome Outcome, promptIDs []string) (disambiguation.Pending, error) {
	pending, err := a.Prompts.Open(ctx, disambiguation.Pending{
		Submitter: author.UserID,
		PromptIDs: promptIDs,
		Pages:     outcome.Pages,
		Record:    outcome.Record,
	})
	if err != nil && pending.ID != "" {
		// registered in memory, only the store write failed
		logger.Warningf("Prompt %s will not survive a restart: %v", pending.ID, err)
		return pending, nil
	}
	return pending, err
}

// Choose resolves a prompt from a reaction and saves the record to the chosen cube
// Preconditions: Receives the prompt message id, the reacting user id and the reaction
// Postconditions: Returns the resolution and true if this reaction closed the prompt. Reactions that do not close
// a prompt return false and no error. Returns ErrPersistFailed if saving failed after the prompt was closed
func (a *API) Choose(ctx context.Context, promptID string, userID string, selector string) (disambiguation.Resolution, bool, error) {
	resolution, ok, err := a.Prompts.Resolve(ctx, promptID, userID, selector)
	if !ok {
		return resolution, false, err
	}
	if err != nil {
		logger.Warningf("Prompt %s resolved but not removed from the store: %v", resolution.Pending.ID, err)
	}

	if err := a.Persist(ctx, resolution.Pending.Record, resolution.Pool); err != nil {
		return resolution, true, err
	}
	return resolution, true, nil
}

// RefreshCubes fetches new card lists for the named cubes (all cubes when none are named), saves the catalog
// document to path and swaps the catalog in
// Preconditions: Receives a fetcher, the catalog document path and names typed by a user
// Postconditions: Returns the new catalog, or an error if a name matched no cube, a fetch failed or the document
// could not be written. On error the current catalog is kept
func (a *API) RefreshCubes(ctx context.Context, fetcher cubes.CardFetcher, path string, names ...string) (*cubes.Catalog, error) {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	current := a.Catalog()
	exact := make([]string, 0, len(names))
	for _, name := range names {
		cube, err := current.Lookup(name)
		if err != nil {
			return nil, err
		}
		exact = append(exact, cube.Name)
	}

	refreshed, err := cubes.Refresh(ctx, current, fetcher, exact...)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := refreshed.Save(path); err != nil {
			return nil, err
		}
	}
	a.SetCatalog(refreshed)
	return refreshed, nil
}

const byteOrderMark = "\uFEFF"

// Decode converts attachment bytes to UTF-8. The encoding is taken from a byte order mark or the content type when
// present, otherwise the bytes are treated as UTF-8 if valid and Windows-1252 if not. A leading byte order mark is
// removed
func Decode(data []byte, contentType string) (string, error) {
	encoding, name, certain := charset.DetermineEncoding(data, contentType)
	if !certain {
		// only a prefix was sniffed, the whole attachment decides between UTF-8 and Windows-1252
		if utf8.Valid(data) {
			name = "utf-8"
		} else if name == "utf-8" {
			encoding, name = charmap.Windows1252, "windows-1252"
		}
	}
	if name == "utf-8" && utf8.Valid(data) {
		return strings.TrimPrefix(string(data), byteOrderMark), nil
	}

	decoded, err := encoding.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s attachment: %w", name, err)
	}
	return strings.TrimPrefix(string(decoded), byteOrderMark), nil
}

// NotificationFor turns a submission error into the message sent to the submitter
func NotificationFor(recipient string, err error) shared.Notification {
	var unrecognized *draftdata.UnrecognizedFormatError
	var malformed *draftdata.MalformedDraftLogError

	var body string
	switch {
	case errors.Is(err, ErrEmptyAttachment):
		body = "Your attachment was empty, so nothing was saved. Please upload the file again."
	case errors.Is(err, ErrCommanderFormat):
		body = "That looks like a commander deck. Cube formats do not use commanders, so the deck was not saved."
	case errors.As(err, &unrecognized):
		body = fmt.Sprintf("I couldn't tell what kind of file that was, so it was not saved: %v", err)
	case errors.As(err, &malformed):
		body = fmt.Sprintf("Your draft log could not be read, so none of it was saved: %v", err)
	case errors.Is(err, ErrNoCubes):
		body = "There are no cubes configured to save your submission to."
	case errors.Is(err, ErrPersistFailed):
		body = fmt.Sprintf("Your submission was read but could not be saved to the spreadsheet: %v", err)
	default:
		body = fmt.Sprintf("Something went wrong with your submission: %v", err)
	}
	return shared.Notification{Recipient: recipient, Body: body}
}

// PromptNotification is the message listing the choices on one prompt page
func PromptNotification(recipient string, record draftdata.Record, page disambiguation.Page, pageNumber int, pageCount int) shared.Notification {
	body := fmt.Sprintf("Which cube was your %s from? React with the number of the cube.", record.Describe())
	if pageCount > 1 {
		body += fmt.Sprintf(" (page %d of %d)", pageNumber, pageCount)
	}
	for _, choice := range page.Choices {
		body += fmt.Sprintf("\n%s: %s", choice.Selector, choice.Pool)
	}
	return shared.Notification{Recipient: recipient, Body: body}
}
