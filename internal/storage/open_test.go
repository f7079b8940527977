package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/cardmaster/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := Open(ctx, &config.Options{Storage: config.StorageMemory})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &Memory{}, store)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		store, closeFn, err := Open(ctx, &config.Options{Storage: config.StorageFile, StateFile: path})
		require.NoError(t, err)
		defer closeFn()
		f, ok := store.(*File)
		require.True(t, ok)
		assert.Equal(t, path, f.Path())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, closeFn, err := Open(ctx, &config.Options{Storage: config.StorageRedis, RedisAddr: mr.Addr(), RedisPrefix: "cm:"})
		require.NoError(t, err)
		defer closeFn()
		require.NoError(t, store.Set(ctx, "cm_sitename", []byte("x")))
		assert.True(t, mr.Exists("cm:cm_sitename"))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		_, _, err := Open(ctx, &config.Options{Storage: config.StorageRedis, RedisAddr: addr})
		assert.ErrorContains(t, err, "redis ping")
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := Open(ctx, &config.Options{Storage: "floppy"})
		assert.ErrorContains(t, err, `unknown storage backend "floppy"`)
	})
}
