package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"userRegistration/internal/testutil"
)

func TestUserRepository_CreateAndQueries(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo")
	repo := NewUserRepository(d)
	ctx := context.Background()

	// Create
	u, err := repo.Create(ctx, "alice", "alice@example.com", "hash-a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Username != "alice" || u.Email != "alice@example.com" {
		t.Fatalf("unexpected created user: %+v", u)
	}

	// GetByID
	g, err := repo.GetByID(ctx, u.ID)
	if err != nil || g == nil || g.Username != "alice" || g.PasswordHash != "hash-a" {
		t.Fatalf("get by id: %v %+v", err, g)
	}

	// GetByUsername
	g2, err := repo.GetByUsername(ctx, "alice")
	if err != nil || g2 == nil || g2.ID != u.ID {
		t.Fatalf("get by username: %v %+v", err, g2)
	}

	// Missing rows are not errors
	missing, err := repo.GetByUsername(ctx, "ghost_user")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown user, got %+v err=%v", missing, err)
	}
	missing, err = repo.GetByID(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown id, got %+v err=%v", missing, err)
	}

	// Count
	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count: %v n=%d", err, n)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepodup")
	repo := NewUserRepository(d)
	ctx := context.Background()

	if _, err := repo.Create(ctx, "bob", "bob@example.com", "h1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, "bob", "other@example.com", "h2")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("duplicate should not be reported as storage failure: %v", err)
	}
	if got := testutil.CountUsername(t, d, "bob"); got != 1 {
		t.Fatalf("expected exactly one bob row, got %d", got)
	}
}

func TestUserRepository_ListPaging(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepolist")
	repo := NewUserRepository(d)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("user%d", i)
		if _, err := repo.Create(ctx, name, name+"@example.com", "h"); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	page, err := repo.List(ctx, 2, 0)
	if err != nil || len(page) != 2 {
		t.Fatalf("list page 1: %v len=%d", err, len(page))
	}
	if page[0].Username != "user0" || page[1].Username != "user1" {
		t.Fatalf("unexpected order: %+v", page)
	}

	page, err = repo.List(ctx, 2, 4)
	if err != nil || len(page) != 1 || page[0].Username != "user4" {
		t.Fatalf("list last page: %v %+v", err, page)
	}

	// Out of range inputs are clamped rather than rejected.
	all, err := repo.List(ctx, 0, -3)
	if err != nil || len(all) != 5 {
		t.Fatalf("list clamped: %v len=%d", err, len(all))
	}
}

func TestUserRepository_ClosedDB(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepoclosed")
	repo := NewUserRepository(d)
	_ = d.Close()

	ctx := context.Background()
	if _, err := repo.GetByUsername(ctx, "alice"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable from closed db, got %v", err)
	}
	if _, err := repo.Create(ctx, "alice", "a@example.com", "h"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable on insert, got %v", err)
	}
	if _, err := repo.List(ctx, 10, 0); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable on list, got %v", err)
	}
}
