package db

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(buf *bytes.Buffer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(buf),
		level,
	)
	return zap.New(core)
}

func TestTakeSnapshot_CopiesAndPrunes(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	retention := 7 * 24 * time.Hour

	mock.ExpectExec("INSERT INTO kv_snapshots").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec("DELETE FROM kv_snapshots").
		WithArgs(now.Add(-retention)).
		WillReturnResult(sqlmock.NewResult(0, 14))

	var buf bytes.Buffer
	takeSnapshot(context.Background(), dbMock, now, retention, newBufferLogger(&buf, zapcore.InfoLevel))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "state snapshot taken") || !strings.Contains(out, "pruned state snapshots") {
		t.Errorf("expected snapshot and prune logs, got:\n%s", out)
	}
}

func TestTakeSnapshot_InsertErrorSkipsPrune(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("INSERT INTO kv_snapshots").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("db fail"))

	var buf bytes.Buffer
	takeSnapshot(context.Background(), dbMock, time.Now(), time.Hour, newBufferLogger(&buf, zapcore.ErrorLevel))

	if !strings.Contains(buf.String(), "failed to snapshot state") {
		t.Errorf("expected error log, got:\n%s", buf.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}

func TestStartSnapshotter_Ticks(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("INSERT INTO kv_snapshots").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM kv_snapshots").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartSnapshotter(ctx, dbMock, 10*time.Millisecond, time.Hour, zap.NewNop())

	time.Sleep(200 * time.Millisecond)
	cancel()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartSnapshotter_NonPositiveInterval(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	var buf bytes.Buffer
	StartSnapshotter(context.Background(), dbMock, 0, 0, newBufferLogger(&buf, zapcore.WarnLevel))

	time.Sleep(20 * time.Millisecond)

	if !strings.Contains(buf.String(), "state snapshots disabled") {
		t.Errorf("expected warning, got:\n%s", buf.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}

func TestStartSnapshotter_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	ctx, cancel := context.WithCancel(context.Background())

	StartSnapshotter(ctx, dbMock, 100*time.Millisecond, time.Hour, zap.NewNop())
	cancel()

	time.Sleep(50 * time.Millisecond)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}
