package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get existing key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cardmaster.kv", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "cm_sitename"},
			{Key: "value", Value: "CardMaster"},
		}))

		v, ok, err := NewMongo(mt.Coll).Get(context.Background(), "cm_sitename")
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, "CardMaster", string(v))
	})

	mt.Run("get missing key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cardmaster.kv", mtest.FirstBatch))

		v, ok, err := NewMongo(mt.Coll).Get(context.Background(), "cm_tasks")
		require.NoError(mt, err)
		assert.False(mt, ok)
		assert.Nil(mt, v)
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewMongo(mt.Coll).Set(context.Background(), "cm_sitename", []byte("CardMaster"))
		assert.NoError(mt, err)
	})

	mt.Run("set reports write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := NewMongo(mt.Coll).Set(context.Background(), "cm_sitename", []byte("x"))
		assert.ErrorContains(mt, err, `mongo set "cm_sitename"`)
	})
}
