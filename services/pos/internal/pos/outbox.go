package pos

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OccupancyIntent records an order whose table could not be marked
// OCCUPIED when the order was created.
type OccupancyIntent struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	TableID   string    `json:"table_id" bson:"table_id"`
	OrderID   string    `json:"order_id" bson:"order_id"`
	Attempts  int       `json:"attempts" bson:"attempts"`
	LastError string    `json:"last_error,omitempty" bson:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func NewOccupancyIntent(tableID, orderID string, cause error) OccupancyIntent {
	now := time.Now().UTC()
	intent := OccupancyIntent{
		ID:        uuid.New(),
		TableID:   tableID,
		OrderID:   orderID,
		Attempts:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cause != nil {
		intent.LastError = cause.Error()
	}
	return intent
}

// OccupancyOutbox persists pending occupancy intents across restarts.
type OccupancyOutbox interface {
	Add(ctx context.Context, intent OccupancyIntent) error
	List(ctx context.Context) ([]OccupancyIntent, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// MemoryOutbox is the in-process outbox used when no database is set.
type MemoryOutbox struct {
	mu      sync.Mutex
	intents map[uuid.UUID]OccupancyIntent
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{intents: make(map[uuid.UUID]OccupancyIntent)}
}

func (o *MemoryOutbox) Add(ctx context.Context, intent OccupancyIntent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.intents[intent.ID] = intent
	return nil
}

func (o *MemoryOutbox) List(ctx context.Context) ([]OccupancyIntent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]OccupancyIntent, 0, len(o.intents))
	for _, intent := range o.intents {
		out = append(out, intent)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (o *MemoryOutbox) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	intent, ok := o.intents[id]
	if !ok {
		return nil
	}
	intent.Attempts++
	intent.LastError = reason
	intent.UpdatedAt = time.Now().UTC()
	o.intents[id] = intent
	return nil
}

func (o *MemoryOutbox) Remove(ctx context.Context, id uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.intents, id)
	return nil
}
