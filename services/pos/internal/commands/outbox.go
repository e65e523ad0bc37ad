package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/cafepos/services/pos/internal/mongo"
	"github.com/appetiteclub/cafepos/services/pos/internal/pos"
)

var errNoMongo = errors.New("db.mongo.url is not set; the station keeps its outbox in memory")

func openOutbox(ctx context.Context, opts pos.Options, logger aqm.Logger) (*mongo.OutboxRepo, func(), error) {
	if opts.MongoURL == "" {
		return nil, nil, errNoMongo
	}

	repo := mongo.NewOutboxRepo(mongo.NewBaseRepo(opts.MongoURL, opts.MongoName, logger))
	if err := repo.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("open outbox: %w", err)
	}
	closeFn := func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		repo.Stop(stopCtx)
	}
	return repo, closeFn, nil
}

// ListOutbox prints the occupancy intents still waiting to be applied.
func ListOutbox(ctx context.Context, opts pos.Options, logger aqm.Logger, out io.Writer) error {
	repo, closeFn, err := openOutbox(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	intents, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list outbox: %w", err)
	}
	return writeIntents(out, intents)
}

// ClearOutbox drops every pending occupancy intent. Tables keep whatever
// status the backend holds.
func ClearOutbox(ctx context.Context, opts pos.Options, logger aqm.Logger) error {
	repo, closeFn, err := openOutbox(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	return clearOutbox(ctx, repo, logger)
}

func clearOutbox(ctx context.Context, outbox pos.OccupancyOutbox, logger aqm.Logger) error {
	intents, err := outbox.List(ctx)
	if err != nil {
		return fmt.Errorf("list outbox: %w", err)
	}

	for _, intent := range intents {
		if err := outbox.Remove(ctx, intent.ID); err != nil {
			return fmt.Errorf("remove intent %s: %w", intent.ID, err)
		}
		logger.Info("Occupancy intent removed", "table_id", intent.TableID, "order_id", intent.OrderID)
	}

	logger.Info("Outbox cleared", "count", len(intents))
	return nil
}

func writeIntents(out io.Writer, intents []pos.OccupancyIntent) error {
	if len(intents) == 0 {
		_, err := fmt.Fprintln(out, "outbox is empty")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTABLE\tORDER\tATTEMPTS\tCREATED\tLAST ERROR")
	for _, i := range intents {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			i.ID, i.TableID, i.OrderID, i.Attempts, i.CreatedAt.Format(time.RFC3339), i.LastError)
	}
	return tw.Flush()
}
