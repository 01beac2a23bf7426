package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedUser inserts a user with sane defaults and returns it.
func SeedUser(t *testing.T, database *db.DB, username, role string) dbgen.User {
	t.Helper()

	user, err := database.Queries.CreateUser(context.Background(), dbgen.CreateUserParams{
		Name:         "Test " + username,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// SeedCourt inserts an ACTIVE court open 08:00-22:00 and returns it.
func SeedCourt(t *testing.T, database *db.DB, name string, capacity int64) dbgen.Court {
	t.Helper()

	court, err := database.Queries.CreateCourt(context.Background(), dbgen.CreateCourtParams{
		Name:      name,
		Sport:     "tennis",
		Location:  "North Hall",
		Capacity:  capacity,
		OpenTime:  "08:00",
		CloseTime: "22:00",
		Status:    "ACTIVE",
	})
	if err != nil {
		t.Fatalf("seed court %s: %v", name, err)
	}
	return court
}
