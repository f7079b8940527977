package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Mongo stores one document per key in a collection, keyed by _id.
type Mongo struct {
	collection *mongo.Collection
}

// NewMongo creates a Mongo store over collection.
func NewMongo(collection *mongo.Collection) *Mongo {
	return &Mongo{collection: collection}
}

// Get returns the value stored under key and whether it was present.
func (m *Mongo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo get %q: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

// Set replaces the document for key, inserting it when absent.
func (m *Mongo) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		kvDocument{Key: key, Value: string(value)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo set %q: %w", key, err)
	}
	return nil
}
