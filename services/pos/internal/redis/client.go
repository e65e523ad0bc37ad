package redis

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pos"

// Client owns the Redis connection shared by the station stores.
type Client struct {
	rdb    *redis.Client
	logger aqm.Logger
}

func NewClient(addr, password string, db int, logger aqm.Logger) *Client {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		logger: logger,
	}
}

func (c *Client) Start(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cannot ping Redis: %w", err)
	}
	c.logger.Info("connected to Redis", "addr", c.rdb.Options().Addr)
	return nil
}

func (c *Client) Stop(ctx context.Context) error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("cannot close Redis: %w", err)
	}
	return nil
}

func key(kind, stationID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, stationID)
}
