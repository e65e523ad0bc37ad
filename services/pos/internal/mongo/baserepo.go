package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BaseRepo struct {
	client *mongo.Client
	db     *mongo.Database
	logger aqm.Logger
	url    string
	name   string
}

func NewBaseRepo(url, name string, logger aqm.Logger) *BaseRepo {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if url == "" {
		url = "mongodb://localhost:27017"
	}
	if name == "" {
		name = "cafepos"
	}
	return &BaseRepo{
		logger: logger,
		url:    url,
		name:   name,
	}
}

func (r *BaseRepo) Start(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(r.url).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(r.name)

	r.logger.Info("connected to MongoDB", "database", r.name)
	return nil
}

func (r *BaseRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("disconnected from MongoDB")
	}
	return nil
}

func (r *BaseRepo) GetDatabase() *mongo.Database {
	return r.db
}
