package refresh

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docq/internal/api"
	"docq/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCycle_RenewsTokenPeriodically(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		n := atomic.AddInt32(&refreshCalls, 1)
		json.NewEncoder(w).Encode(api.RefreshResponse{AccessToken: "tok-" + string(rune('0'+n))})
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Login("tok-0", "alice"))
	client, err := api.NewClient(server.URL, store, testLogger())
	require.NoError(t, err)

	cycle := NewCycle(client, store, testLogger())
	cycle.Interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cycle.Start(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&refreshCalls) >= 2
	}, time.Second, 5*time.Millisecond)

	sess := store.Load()
	assert.NotEqual(t, "tok-0", sess.Token, "renewed token must be persisted")
	assert.Equal(t, "alice", sess.User, "identity must survive silent renewal")
}

func TestCycle_SkipsWhileUnauthenticated(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	client, err := api.NewClient(server.URL, store, testLogger())
	require.NoError(t, err)

	cycle := NewCycle(client, store, testLogger())
	cycle.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cycle.Start(ctx)

	time.Sleep(60 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls))
}

func TestCycle_FailureLeavesSessionAlone(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Login("tok-0", "alice"))
	client, err := api.NewClient(server.URL, store, testLogger())
	require.NoError(t, err)

	cycle := NewCycle(client, store, testLogger())
	cycle.Interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cycle.Start(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&refreshCalls) >= 2
	}, time.Second, 5*time.Millisecond)

	// The cycle never escalates: the session expires later through
	// request-triggered refresh, not here.
	sess := store.Load()
	assert.Equal(t, "tok-0", sess.Token)
	assert.Equal(t, "alice", sess.User)
}

func TestCycle_StopsOnContextCancel(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		json.NewEncoder(w).Encode(api.RefreshResponse{AccessToken: "tok-next"})
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Login("tok-0", "alice"))
	client, err := api.NewClient(server.URL, store, testLogger())
	require.NoError(t, err)

	cycle := NewCycle(client, store, testLogger())
	cycle.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cycle.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&refreshCalls) >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cycle did not stop after context cancellation")
	}

	seen := atomic.LoadInt32(&refreshCalls)
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&refreshCalls), seen+1)
}
