package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/appetiteclub/cafepos/services/pos/internal/pos"
)

// NotificationStore keeps the station notification history as a Redis
// list of JSON documents under pos:notifications:<station>.
type NotificationStore struct {
	rdb *redis.Client
	key string
}

func NewNotificationStore(c *Client, stationID string) *NotificationStore {
	return &NotificationStore{rdb: c.rdb, key: key("notifications", stationID)}
}

func (s *NotificationStore) Append(ctx context.Context, n pos.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("cannot encode notification: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("cannot append notification: %w", err)
	}
	return nil
}

func (s *NotificationStore) List(ctx context.Context) ([]pos.Notification, error) {
	raw, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot list notifications: %w", err)
	}

	out := make([]pos.Notification, 0, len(raw))
	for _, item := range raw {
		var n pos.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, fmt.Errorf("cannot decode notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *NotificationStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("cannot clear notifications: %w", err)
	}
	return nil
}
