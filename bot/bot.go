/* bot.go
 * Contains the Bot struct and the helpers shared by the handlers. Requires a discord bot token and ApiPtr, both of
 * which are passed in from main.go
 */

package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"deckdump-bot/api/api"
	"deckdump-bot/api/cubes"

	"github.com/go-andiamo/splitter"
	"github.com/google/logger"
)

const (
	// maxAttachmentSize caps how much of an attachment is downloaded
	maxAttachmentSize = 8 << 20
	diveDepth         = 200
	downloadTimeout   = 30 * time.Second
)

// Config holds the channel and maintenance settings the bot runs with
type Config struct {
	ChannelID       string
	CubesFile       string
	AdminRoleID     string
	JanitorInterval time.Duration
}

// Downloader fetches the contents of an attachment url
type Downloader func(ctx context.Context, url string) ([]byte, error)

type Bot struct {
	BotToken string
	APIPtr   *api.API
	Config   Config
	Fetcher  cubes.CardFetcher
	Download Downloader

	ctx      context.Context
	inFlight sync.WaitGroup
}

func NewBot(botToken string, apiPtr *api.API, config Config, fetcher cubes.CardFetcher) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}
	if config.ChannelID == "" {
		return nil, fmt.Errorf("channel id is required but none was provided")
	}
	if config.JanitorInterval <= 0 {
		config.JanitorInterval = 10 * time.Minute
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Config:   config,
		Fetcher:  fetcher,
		Download: httpDownload,
		ctx:      context.Background(),
	}, nil
}

// dispatch runs fn in its own goroutine. A panic is logged and does not take down the bot
func (b *Bot) dispatch(name string, fn func()) {
	b.inFlight.Add(1)
	go func() {
		defer b.inFlight.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("Recovered from panic in %s: %v\n%s", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}

// Wait blocks until every dispatched submission and command has finished
func (b *Bot) Wait() {
	b.inFlight.Wait()
}

// httpDownload fetches an attachment from the Discord CDN
func httpDownload(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download attachment. Status code: %d", response.StatusCode)
	}
	return io.ReadAll(io.LimitReader(response.Body, maxAttachmentSize))
}

// parseCommand splits a channel message into its command and arguments. Arguments may be wrapped in straight or
// curly double quotes to include spaces; the quotes are removed
// Preconditions: Receives the message content
// Postconditions: Returns the command without its "$" prefix and the arguments, or ok false if the message is not a
// command
func parseCommand(content string) (string, []string, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "$") {
		return "", nil, false
	}

	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return "", nil, false
	}
	parts, err := spaceSplitter.Split(content)
	if err != nil || len(parts) == 0 {
		return "", nil, false
	}

	args := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		part = strings.NewReplacer("\"", "", "“", "", "”", "").Replace(part)
		if part = strings.TrimSpace(part); part != "" {
			args = append(args, part)
		}
	}
	return strings.TrimPrefix(parts[0], "$"), args, true
}
