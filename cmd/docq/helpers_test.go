package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"docq/internal/api"
	"docq/internal/session"
)

// newTestEnv points the command factories at an in-memory store and a
// stub backend for the duration of one test.
func newTestEnv(t *testing.T, handler http.Handler) (*httptest.Server, *session.MemoryStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()

	origOpen, origNew := openStore, newClient
	t.Cleanup(func() {
		openStore = origOpen
		newClient = origNew
	})

	openStore = func() (session.Store, error) {
		return store, nil
	}
	newClient = func(s session.Store) (*api.Client, error) {
		return api.NewClient(server.URL, s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	return server, store
}
