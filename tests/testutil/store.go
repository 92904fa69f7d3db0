package testutil

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/nhle/voicetask/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestRedis starts a miniredis instance and stops it when the test
// completes.
func NewTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	r, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	t.Cleanup(r.Close)

	return r
}
