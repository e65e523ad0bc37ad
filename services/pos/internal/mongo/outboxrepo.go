package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/cafepos/services/pos/internal/pos"
)

const outboxCollection = "occupancy_outbox"

// OutboxRepo persists table occupancy intents so a restart does not lose
// a pending OCCUPIED write.
type OutboxRepo struct {
	*BaseRepo
	collection *mongo.Collection
}

func NewOutboxRepo(base *BaseRepo) *OutboxRepo {
	return &OutboxRepo{BaseRepo: base}
}

func (r *OutboxRepo) Start(ctx context.Context) error {
	if err := r.BaseRepo.Start(ctx); err != nil {
		return err
	}
	r.collection = r.GetDatabase().Collection(outboxCollection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("cannot create outbox index: %w", err)
	}
	return nil
}

func (r *OutboxRepo) Add(ctx context.Context, intent pos.OccupancyIntent) error {
	if r.collection == nil {
		return errors.New("outbox not started")
	}
	if _, err := r.collection.InsertOne(ctx, intent); err != nil {
		return fmt.Errorf("cannot add occupancy intent: %w", err)
	}
	return nil
}

func (r *OutboxRepo) List(ctx context.Context) ([]pos.OccupancyIntent, error) {
	if r.collection == nil {
		return nil, errors.New("outbox not started")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list occupancy intents: %w", err)
	}
	defer cursor.Close(ctx)

	var result []pos.OccupancyIntent
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode occupancy intents: %w", err)
	}
	return result, nil
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	if r.collection == nil {
		return errors.New("outbox not started")
	}

	update := bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"last_error": reason, "updated_at": time.Now().UTC()},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("cannot update occupancy intent: %w", err)
	}
	return nil
}

func (r *OutboxRepo) Remove(ctx context.Context, id uuid.UUID) error {
	if r.collection == nil {
		return errors.New("outbox not started")
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("cannot remove occupancy intent: %w", err)
	}
	return nil
}
