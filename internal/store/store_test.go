// ABOUTME: Shared test helpers for the store package
// ABOUTME: Provides setupTestStore backed by a temp-dir SQLite database

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// mustCreateItem inserts an item with sensible defaults and returns it.
func mustCreateItem(t *testing.T, s *SQLiteStore, ownerID, title string, category Category) *Item {
	t.Helper()
	item := &Item{
		Title:    title,
		Category: category,
		OwnerID:  ownerID,
	}
	require.NoError(t, s.CreateItem(context.Background(), item))
	return item
}

// mustCreateUser inserts an account and returns it.
func mustCreateUser(t *testing.T, s *SQLiteStore, name string, role Role) *User {
	t.Helper()
	user := &User{
		Name:         name,
		Role:         role,
		PasswordHash: "hash-" + name,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func generateTestID(prefix string, i int) string {
	return fmt.Sprintf("%s-%03d", prefix, i)
}

// at returns a fixed base time offset by the given number of seconds, for
// tests that need deterministic created_at ordering.
func at(seconds int) time.Time {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(seconds) * time.Second)
}
