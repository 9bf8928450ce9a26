/* coordinator.go
 * Contains the Coordinator, which tracks open prompts and resolves them when the submitter reacts. Every page of a
 * submission shares one Pending, so choosing on any page closes the whole group
 */

package disambiguation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// DefaultTTL is how long a prompt stays open when no ttl is configured
const DefaultTTL = 24 * time.Hour

// Store persists open prompts so they survive a restart
type Store interface {
	SavePending(ctx context.Context, pending Pending) error
	DeletePending(ctx context.Context, id string) error
	LoadPending(ctx context.Context, now time.Time) ([]Pending, error)
}

// Coordinator owns the table of open prompts. It is safe for concurrent use
type Coordinator struct {
	mu      sync.Mutex
	prompts map[string]*Pending
	ttl     time.Duration
	store   Store
	now     func() time.Time
}

// NewCoordinator creates a coordinator. store may be nil, in which case prompts only live in memory
func NewCoordinator(ttl time.Duration, store Store) *Coordinator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Coordinator{
		prompts: make(map[string]*Pending),
		ttl:     ttl,
		store:   store,
		now:     time.Now,
	}
}

// Open registers a prompt group under every one of its prompt ids
// Preconditions: Receives a pending group with a submitter and one prompt id per page
// Postconditions: The group is resolvable by its submitter. Missing ID, CreatedAt and ExpiresAt are filled in.
// Returns ErrPromptExists if any prompt id is already open, or the store error if persisting failed (the group
// stays open in memory)
func (c *Coordinator) Open(ctx context.Context, pending Pending) (Pending, error) {
	if pending.Submitter == "" || len(pending.Pages) == 0 || len(pending.PromptIDs) != len(pending.Pages) {
		return Pending{}, fmt.Errorf("%w: need a submitter and one prompt id per page", ErrInvalidPending)
	}
	if pending.ID == "" {
		pending.ID = pending.PromptIDs[0]
	}
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = c.now()
	}
	if pending.ExpiresAt.IsZero() {
		pending.ExpiresAt = pending.CreatedAt.Add(c.ttl)
	}

	if err := c.insert(&pending); err != nil {
		return Pending{}, err
	}

	if c.store != nil {
		if err := c.store.SavePending(ctx, pending); err != nil {
			return pending, fmt.Errorf("save pending %s: %w", pending.ID, err)
		}
	}
	return pending, nil
}

func (c *Coordinator) insert(pending *Pending) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range pending.PromptIDs {
		if _, exists := c.prompts[id]; exists {
			return fmt.Errorf("%w: %s", ErrPromptExists, id)
		}
	}
	for _, id := range pending.PromptIDs {
		c.prompts[id] = pending
	}
	return nil
}

// Resolve closes a prompt group when its submitter reacts with one of the page's selectors
// Preconditions: Receives the prompt message id, the reacting user and the reaction emoji
// Postconditions: Returns the chosen pool and true if this call closed the group. Reactions from other users,
// unknown selectors, expired and already resolved prompts return false and change nothing. A store error is
// returned together with a successful resolution
func (c *Coordinator) Resolve(ctx context.Context, promptID string, userID string, selector string) (Resolution, bool, error) {
	c.mu.Lock()
	pending, ok := c.prompts[promptID]
	if !ok || pending.Submitter != userID || pending.Expired(c.now()) {
		c.mu.Unlock()
		return Resolution{}, false, nil
	}
	page, _ := pending.page(promptID)
	pool, ok := page.Pool(selector)
	if !ok {
		c.mu.Unlock()
		return Resolution{}, false, nil
	}
	c.removeLocked(pending)
	c.mu.Unlock()

	resolution := Resolution{Pending: *pending, Pool: pool}
	if c.store != nil {
		if err := c.store.DeletePending(ctx, pending.ID); err != nil {
			return resolution, true, fmt.Errorf("delete pending %s: %w", pending.ID, err)
		}
	}
	return resolution, true, nil
}

func (c *Coordinator) removeLocked(pending *Pending) {
	for _, id := range pending.PromptIDs {
		if c.prompts[id] == pending {
			delete(c.prompts, id)
		}
	}
}

// Sweep removes every group that has expired at now and returns them
func (c *Coordinator) Sweep(ctx context.Context, now time.Time) ([]Pending, error) {
	c.mu.Lock()
	var expired []*Pending
	for _, pending := range c.prompts {
		if pending.Expired(now) && !slices.Contains(expired, pending) {
			expired = append(expired, pending)
		}
	}
	for _, pending := range expired {
		c.removeLocked(pending)
	}
	c.mu.Unlock()

	swept := make([]Pending, 0, len(expired))
	var errs []error
	for _, pending := range expired {
		swept = append(swept, *pending)
		if c.store != nil {
			if err := c.store.DeletePending(ctx, pending.ID); err != nil {
				errs = append(errs, fmt.Errorf("delete pending %s: %w", pending.ID, err))
			}
		}
	}
	slices.SortFunc(swept, func(a, b Pending) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return swept, errors.Join(errs...)
}

// RunJanitor sweeps expired prompts every interval until ctx is cancelled. onExpired is called for each swept
// group and onError for store failures; either may be nil
func (c *Coordinator) RunJanitor(ctx context.Context, every time.Duration, onExpired func(Pending), onError func(error)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := c.Sweep(ctx, c.now())
			if err != nil && onError != nil {
				onError(err)
			}
			if onExpired == nil {
				continue
			}
			for _, pending := range swept {
				onExpired(pending)
			}
		}
	}
}

// Restore reloads the groups that were still open when the bot last stopped
// Postconditions: Returns the number of groups reopened. Groups whose prompt ids are already open are skipped
func (c *Coordinator) Restore(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	stored, err := c.store.LoadPending(ctx, c.now())
	if err != nil {
		return 0, fmt.Errorf("load pending prompts: %w", err)
	}

	restored := 0
	for i := range stored {
		pending := stored[i]
		if len(pending.PromptIDs) != len(pending.Pages) {
			continue
		}
		if err := c.insert(&pending); err != nil {
			continue
		}
		restored++
	}
	return restored, nil
}

// Get returns a copy of the group that owns the prompt message
func (c *Coordinator) Get(promptID string) (Pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending, ok := c.prompts[promptID]
	if !ok {
		return Pending{}, false
	}
	return *pending, true
}

// Len returns the number of open prompt messages
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}
