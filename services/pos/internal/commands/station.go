package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/cafepos/pkg/enums/station"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
	"github.com/appetiteclub/cafepos/services/pos/internal/pos"
	"github.com/appetiteclub/cafepos/services/pos/internal/redis"
)

var errNoRedis = errors.New("redis.addr is not set; the station keeps its state in memory")

// ResetStation signs the configured station out and drops the waiter
// notification history kept in Redis.
func ResetStation(ctx context.Context, opts pos.Options, logger aqm.Logger) error {
	if opts.RedisAddr == "" {
		return errNoRedis
	}

	client := redis.NewClient(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, logger)
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Stop(stopCtx)
	}()

	return resetStation(ctx,
		redis.NewTokenStore(client, opts.StationID),
		redis.NewNotificationStore(client, station.Stations.Waiter.Name),
		opts.StationID,
		logger,
	)
}

func resetStation(ctx context.Context, tokens api.TokenStore, notifications pos.NotificationStore, stationID string, logger aqm.Logger) error {
	if err := tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	logger.Info("Station token cleared", "station", stationID)

	if err := notifications.Clear(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	logger.Info("Waiter notifications cleared")
	return nil
}
