package pos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultConfirmationTTL = 2 * time.Minute

// Confirmation is a pending destructive action waiting for a second press.
type Confirmation struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

type pendingAction struct {
	Confirmation
	run func(context.Context) error
}

// Confirmations holds pending destructive actions in memory until they are
// confirmed, dismissed or expire.
type Confirmations struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*pendingAction
	ttl     time.Duration
	now     func() time.Time
}

func NewConfirmations(ttl time.Duration) *Confirmations {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &Confirmations{
		pending: make(map[uuid.UUID]*pendingAction),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Request registers run under a new confirmation id.
func (c *Confirmations) Request(action, subject string, run func(context.Context) error) Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	p := &pendingAction{
		Confirmation: Confirmation{
			ID:        uuid.New(),
			Action:    action,
			Subject:   subject,
			ExpiresAt: c.now().Add(c.ttl),
		},
		run: run,
	}
	c.pending[p.ID] = p
	return p.Confirmation
}

// Confirm runs the pending action once. The confirmation is consumed even
// when the action fails; the operator starts over.
func (c *Confirmations) Confirm(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	p, ok := c.pending[id]
	delete(c.pending, id)
	expired := ok && c.now().After(p.ExpiresAt)
	c.mu.Unlock()

	if !ok {
		return ErrConfirmationNotFound
	}
	if expired {
		return ErrConfirmationExpired
	}
	return p.run(ctx)
}

// Dismiss drops a pending confirmation without running it.
func (c *Confirmations) Dismiss(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	delete(c.pending, id)
	return ok
}

func (c *Confirmations) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()
	return len(c.pending)
}

func (c *Confirmations) cleanupLocked() {
	now := c.now()
	for id, p := range c.pending {
		if now.After(p.ExpiresAt) {
			delete(c.pending, id)
		}
	}
}
