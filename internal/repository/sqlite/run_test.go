package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/code-runner/internal/apperror"
	"github.com/sakif/code-runner/internal/model"
	"github.com/sakif/code-runner/internal/repository"
)

// Using ":memory:" gives every test a fresh, isolated database that
// disappears when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestRun(t *testing.T, db *DB, status, code string) *model.Run {
	t.Helper()
	run := &model.Run{Status: status, Code: code, ExecutionTime: 0.1}
	if err := db.Create(context.Background(), run); err != nil {
		t.Fatalf("failed to create test run: %v", err)
	}
	return run
}

func TestCreate(t *testing.T) {
	db := newTestDB(t)

	run := &model.Run{
		Status: "success",
		Code:   "print('hello')",
		Output: "hello\n",
	}

	err := db.Create(context.Background(), run)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Create fills these in-place via the pointer receiver
	if run.ID == "" {
		t.Error("Create() did not set run.ID")
	}
	if run.CreatedAt.IsZero() {
		t.Error("Create() did not set run.CreatedAt")
	}
}

func TestCreate_VerifyPersistence(t *testing.T) {
	db := newTestDB(t)

	original := &model.Run{
		Status:        "error",
		Code:          "1/0",
		Error:         "ZeroDivisionError: division by zero",
		ExitCode:      1,
		ExecutionTime: 0.05,
	}
	if err := db.Create(context.Background(), original); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Status != original.Status {
		t.Errorf("Status = %q, want %q", found.Status, original.Status)
	}
	if found.Code != original.Code {
		t.Errorf("Code = %q, want %q", found.Code, original.Code)
	}
	if found.Error != original.Error {
		t.Errorf("Error = %q, want %q", found.Error, original.Error)
	}
	if found.ExitCode != original.ExitCode {
		t.Errorf("ExitCode = %d, want %d", found.ExitCode, original.ExitCode)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "does-not-exist")
	if err == nil {
		t.Fatal("GetByID() expected error for missing run")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	db := newTestDB(t)

	createTestRun(t, db, "success", "print(1)")
	createTestRun(t, db, "error", "1/0")
	createTestRun(t, db, "success", "print(3)")

	runs, err := db.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(runs) != 3 {
		t.Fatalf("List() returned %d runs, want 3", len(runs))
	}
}

func TestList_Pagination(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 5; i++ {
		createTestRun(t, db, "success", "print('x')")
	}

	page, err := db.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("List(limit=2) returned %d runs, want 2", len(page))
	}

	rest, err := db.List(context.Background(), repository.ListOptions{Limit: 10, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("List(offset=4) returned %d runs, want 1", len(rest))
	}
}

func TestList_Empty(t *testing.T) {
	db := newTestDB(t)

	runs, err := db.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() on empty table returned %d runs, want 0", len(runs))
	}
}
