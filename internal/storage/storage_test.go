package storage

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(DefaultPath(t.TempDir()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	if _, ok, err := db.Get(ctx, KeySession); err != nil || ok {
		t.Fatalf("Get on empty store = ok:%v err:%v", ok, err)
	}

	if err := db.SetMany(ctx, map[string]string{KeySession: `{"version":1}`, KeyRememberMe: "true"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	if err := db.Set(ctx, KeySession, `{"version":2}`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, ok, err := db.Get(ctx, KeySession)
	if err != nil || !ok || got != `{"version":2}` {
		t.Fatalf("Get = %q ok:%v err:%v", got, ok, err)
	}

	if err := db.Delete(ctx, KeySession, KeyRememberMe, "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := db.Get(ctx, KeyRememberMe); ok {
		t.Fatal("rememberMe survived delete")
	}
}

func TestReopenKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Set(ctx, KeySystemSettings, `{"theme":"dark"}`); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	got, ok, err := db.Get(ctx, KeySystemSettings)
	if err != nil || !ok || got != `{"theme":"dark"}` {
		t.Fatalf("after reopen Get = %q ok:%v err:%v", got, ok, err)
	}
}

func TestSetManyRollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	upsert := regexp.QuoteMeta(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`)
	mock.ExpectBegin()
	mock.ExpectExec(upsert).WithArgs("a", "1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(upsert).WithArgs("b", "2", sqlmock.AnyArg()).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	db := Wrap(sqlDB)
	err = db.SetMany(context.Background(), map[string]string{"a": "1", "b": "2"})
	if err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteCommits(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	del := regexp.QuoteMeta(`DELETE FROM kv WHERE key = ?`)
	mock.ExpectBegin()
	mock.ExpectExec(del).WithArgs(KeySession).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(del).WithArgs(KeyAuthToken).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := Wrap(sqlDB).Delete(context.Background(), KeySession, KeyAuthToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetReadError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).WithArgs(KeySession).WillReturnError(errors.New("locked"))

	if _, _, err := Wrap(sqlDB).Get(context.Background(), KeySession); err == nil {
		t.Fatal("expected read error")
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.SetMany(ctx, map[string]string{"a": "1", "b": "2"})
	_ = m.Delete(ctx, "a")
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatal("a not deleted")
	}
	if v, ok, _ := m.Get(ctx, "b"); !ok || v != "2" {
		t.Fatalf("b = %q ok:%v", v, ok)
	}
}

func TestCurrentProject(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if got := CurrentProject(ctx, m); got != 0 {
		t.Fatalf("unset = %d", got)
	}
	if err := SetCurrentProject(ctx, m, 42); err != nil {
		t.Fatal(err)
	}
	if got := CurrentProject(ctx, m); got != 42 {
		t.Fatalf("CurrentProject = %d, want 42", got)
	}
	_ = m.Set(ctx, KeyCurrentProject, "garbage")
	if got := CurrentProject(ctx, m); got != 0 {
		t.Fatalf("garbage = %d, want 0", got)
	}
	if err := SetCurrentProject(ctx, m, 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, KeyCurrentProject); ok {
		t.Fatal("clear left the key behind")
	}
}
