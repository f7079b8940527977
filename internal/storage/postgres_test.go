package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupPostgresMock(t *testing.T) (*Postgres, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	store := NewPostgres(db)
	cleanup := func() { db.Close() }
	return store, mock, cleanup
}

func TestPostgresGet_Found(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)).
		WithArgs("cm_sitename").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("CardMaster")))

	v, ok, err := store.Get(context.Background(), "cm_sitename")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || string(v) != "CardMaster" {
		t.Errorf("Get = %q, %v; want %q, true", v, ok, "CardMaster")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresGet_Missing(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)).
		WithArgs("cm_tasks").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, ok, err := store.Get(context.Background(), "cm_tasks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || v != nil {
		t.Errorf("Get = %q, %v; want nil, false", v, ok)
	}
}

func TestPostgresGet_Error(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)).
		WithArgs("cm_tasks").
		WillReturnError(errors.New("connection reset"))

	_, _, err := store.Get(context.Background(), "cm_tasks")
	if err == nil || !regexp.MustCompile(`get "cm_tasks"`).MatchString(err.Error()) {
		t.Errorf("expected wrapped get error, got %v", err)
	}
}

func TestPostgresSet(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("cm_sitename", []byte("CardMaster")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Set(context.Background(), "cm_sitename", []byte("CardMaster")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresSetAll_Commit(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("cm_sitelogo", []byte("")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("cm_sitename", []byte("CardMaster")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.SetAll(context.Background(), map[string][]byte{
		"cm_sitename": []byte("CardMaster"),
		"cm_sitelogo": []byte(""),
	})
	if err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresSetAll_Rollback(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("cm_users", []byte("[]")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.SetAll(context.Background(), map[string][]byte{"cm_users": []byte("[]")})
	if err == nil || !regexp.MustCompile(`upsert "cm_users"`).MatchString(err.Error()) {
		t.Errorf("expected upsert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
