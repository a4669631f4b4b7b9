package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docq/internal/api"
)

func TestDiscordNotifier_Send(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL)
	require.NoError(t, n.Notify(context.Background(), "job done"))
	assert.Equal(t, "job done", got["content"])
	assert.Equal(t, "docq", got["username"])
}

func TestDiscordNotifier_Errors(t *testing.T) {
	n := NewDiscordNotifier("")
	assert.Error(t, n.Notify(context.Background(), "msg"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n = NewDiscordNotifier(server.URL)
	assert.Error(t, n.Notify(context.Background(), "msg"))
}

type stubNotifier struct {
	messages []string
	err      error
}

func (s *stubNotifier) Notify(_ context.Context, message string) error {
	s.messages = append(s.messages, message)
	return s.err
}

func TestManager_FansOutAndToleratesFailure(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	m := NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.False(t, m.Enabled())

	ok := &stubNotifier{}
	bad := &stubNotifier{err: errors.New("boom")}
	m.Add(bad)
	m.Add(ok)
	assert.True(t, m.Enabled())

	require.NoError(t, m.Notify(context.Background(), "hello"))
	assert.Equal(t, []string{"hello"}, ok.messages, "a failing provider must not block the others")
	assert.Equal(t, []string{"hello"}, bad.messages)
}

func TestJobFinished(t *testing.T) {
	msg := JobFinished("42", "thesis-review", api.StatusDone)
	assert.Contains(t, msg, "#42")
	assert.Contains(t, msg, "thesis-review")
	assert.Contains(t, msg, "done")

	msg = JobFinished("42", "", api.StatusError)
	assert.Contains(t, msg, "❌")
	assert.NotContains(t, msg, "()")
}
