package pos

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/cafepos/pkg/enums/orderstatus"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

type Notification struct {
	ID         uuid.UUID `json:"id"`
	OrderID    string    `json:"order_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// NotificationStore keeps the notification history of a station,
// append on receive, cleared by hand.
type NotificationStore interface {
	Append(ctx context.Context, n Notification) error
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
}

type MemoryNotificationStore struct {
	mu    sync.Mutex
	items []Notification
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{}
}

func (s *MemoryNotificationStore) Append(ctx context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
	return nil
}

func (s *MemoryNotificationStore) List(ctx context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryNotificationStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

// Notifier flags orders that newly reached the watched status between two
// polls. The first observation only seeds the seen set so a restart does
// not flag orders that were already there.
type Notifier struct {
	mu      sync.Mutex
	watch   orderstatus.Status
	seen    map[string]struct{}
	seeded  bool
	hasNew  bool
	history NotificationStore
	logger  aqm.Logger
	now     func() time.Time
}

func NewNotifier(watch orderstatus.Status, history NotificationStore, logger aqm.Logger) *Notifier {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if history == nil {
		history = NewMemoryNotificationStore()
	}
	return &Notifier{
		watch:   watch,
		seen:    make(map[string]struct{}),
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Observe diffs orders against the seen set and records a notification for
// every order newly in the watched status.
func (n *Notifier) Observe(ctx context.Context, orders []api.Order) []Notification {
	n.mu.Lock()
	var fresh []Notification
	for _, o := range orders {
		if o.Status != n.watch.Value {
			continue
		}
		id := o.ID.String()
		if _, ok := n.seen[id]; ok {
			continue
		}
		n.seen[id] = struct{}{}
		if !n.seeded {
			continue
		}
		fresh = append(fresh, Notification{
			ID:         uuid.New(),
			OrderID:    id,
			Title:      fmt.Sprintf("Order %s is %s", id, n.watch.Name),
			Body:       orderSummary(o),
			ReceivedAt: n.now().UTC(),
		})
	}
	n.seeded = true
	if len(fresh) > 0 {
		n.hasNew = true
	}
	n.mu.Unlock()

	for _, item := range fresh {
		if err := n.history.Append(ctx, item); err != nil {
			n.logger.Error("cannot store notification", "order_id", item.OrderID, "error", err)
		}
	}
	return fresh
}

func (n *Notifier) HasNew() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hasNew
}

// Open returns the history and clears the new flag.
func (n *Notifier) Open(ctx context.Context) ([]Notification, error) {
	n.mu.Lock()
	n.hasNew = false
	n.mu.Unlock()
	return n.history.List(ctx)
}

func (n *Notifier) Clear(ctx context.Context) error {
	n.mu.Lock()
	n.hasNew = false
	n.mu.Unlock()
	return n.history.Clear(ctx)
}

func orderSummary(o api.Order) string {
	if len(o.Items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name()))
	}
	return strings.Join(parts, ", ")
}
