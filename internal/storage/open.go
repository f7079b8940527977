package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atinyakov/cardmaster/internal/config"
	"github.com/atinyakov/cardmaster/internal/db"
)

// Store is the key-value contract shared by every backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Open connects the backend selected in options. The returned func releases
// its connections.
func Open(ctx context.Context, options *config.Options) (Store, func(), error) {
	noop := func() {}

	switch options.Storage {
	case config.StorageMemory:
		return NewMemory(), noop, nil

	case config.StorageFile:
		store, err := OpenFile(options.StateFile)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.StoragePostgres:
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgres(postgresDB), func() { _ = postgresDB.Close() }, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     options.RedisAddr,
			Password: options.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedis(client, options.RedisPrefix), func() { _ = client.Close() }, nil

	case config.StorageMongo:
		client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(options.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo ping: %w", err)
		}
		coll := client.Database(options.MongoDatabase).Collection(options.MongoColl)
		return NewMongo(coll), func() { _ = client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", options.Storage)
}
