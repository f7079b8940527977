package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartSnapshotter copies the current kv_store rows into kv_snapshots every
// interval and drops snapshots older than retention. It stops when ctx is done.
// A non-positive interval disables snapshots.
func StartSnapshotter(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	if interval <= 0 {
		log.Warn("state snapshots disabled", zap.Duration("interval", interval))
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				takeSnapshot(ctx, db, time.Now().UTC(), retention, log)
			}
		}
	}()
}

func takeSnapshot(ctx context.Context, db *sql.DB, now time.Time, retention time.Duration, log *zap.Logger) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO kv_snapshots (key, value, taken_at)
		SELECT key, value, $1 FROM kv_store
	`, now)
	if err != nil {
		log.Error("failed to snapshot state", zap.Error(err))
		return
	}
	if rows, _ := res.RowsAffected(); rows > 0 {
		log.Info("state snapshot taken", zap.Int64("keys", rows))
	}

	res, err = db.ExecContext(ctx, `
		DELETE FROM kv_snapshots
		 WHERE taken_at < $1
	`, now.Add(-retention))
	if err != nil {
		log.Error("failed to prune state snapshots", zap.Error(err))
		return
	}
	if rows, _ := res.RowsAffected(); rows > 0 {
		log.Info("pruned state snapshots", zap.Int64("removed", rows))
	}
}
