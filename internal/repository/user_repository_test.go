package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/prajwalts/interviewdost/internal/model"
	"github.com/prajwalts/interviewdost/internal/testhelpers"
)

func TestUserRepository_FindUserByEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewUserRepository(db)

	seeded := testhelpers.SeedUser(t, db, "Asha", "asha@example.com", "candidate")

	got, err := repo.FindUserByEmail("asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatalf("expected id %d, got %d", seeded.ID, got.ID)
	}

	if _, err := repo.FindUserByEmail("nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_EmailIsUnique(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewUserRepository(db)

	testhelpers.SeedUser(t, db, "Asha", "asha@example.com", "candidate")

	name, email := "Imposter", "asha@example.com"
	dup := &model.User{Name: &name, Email: &email, Role: "candidate"}
	if err := repo.CreateUser(dup); err == nil {
		t.Fatalf("expected unique violation for duplicate email")
	}
}

func TestUserRepository_UpdateUserLeavesEmbeddingUntouched(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewUserRepository(db)

	user := testhelpers.SeedUser(t, db, "Asha", "asha@example.com", "candidate")

	// Updating a user that has no embedding yet must not write the
	// zero-value vector into the column.
	summary := "Backend engineer."
	user.ResumeSummary = &summary
	if err := repo.UpdateUser(user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.FindUserByID(user.ID)
	if err != nil {
		t.Fatalf("user row unreadable after update: %v", err)
	}
	if got.ResumeSummary == nil || *got.ResumeSummary != summary {
		t.Fatalf("expected summary stored, got %+v", got)
	}

	// A stored embedding survives later profile updates.
	if err := repo.UpdateEmbedding(user.ID, pgvector.NewVector([]float32{0.1, 0.2, 0.3})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary = "Backend engineer with Go experience."
	user.ResumeSummary = &summary
	if err := repo.UpdateUser(user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = repo.FindUserByID(user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Embedding.Slice()) != 3 {
		t.Fatalf("expected embedding preserved, got %v", got.Embedding.Slice())
	}
}

func TestUserRepository_GetUsersPaginates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewUserRepository(db)

	for i := 0; i < 5; i++ {
		testhelpers.SeedUser(t, db, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i), "candidate")
	}

	users, total, err := repo.GetUsers(1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users on page 1, got %d", len(users))
	}

	last, _, err := repo.GetUsers(3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last) != 1 {
		t.Fatalf("expected 1 user on page 3, got %d", len(last))
	}
	if last[0].Name == nil || *last[0].Name != "User 4" {
		t.Fatalf("expected stable id ordering, got %+v", last[0])
	}
}
