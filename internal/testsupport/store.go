package testsupport

import (
	"context"
	"testing"

	"cleaver/internal/config"
	"cleaver/internal/session"
)

// MustOpenStore opens a session.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *session.Store {
	t.Helper()

	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewSession creates a session row for tests using the provided store.
func NewSession(t testing.TB, store *session.Store, sourcePath string) *session.Session {
	t.Helper()

	sess, err := store.Create(context.Background(), sourcePath, "")
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return sess
}
