package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docq/internal/api"
	"docq/internal/ui"
)

func watchTestHandler(t *testing.T, status api.Status) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/jobs/7":
			json.NewEncoder(w).Encode(api.JobDetail{
				ID:   7,
				Name: "thesis-review",
				Files: []api.File{
					{ID: 11, Filename: "chapter1.pdf"},
				},
				Questions: []api.Question{
					{ID: 21, Text: "What is the main claim?"},
				},
				Answers: []api.AnswerRef{
					{ID: 31, FileID: 11, QuestionID: 21},
				},
			})
		case r.URL.Path == "/jobs/7/status":
			json.NewEncoder(w).Encode(api.JobStatus{Status: status})
		case strings.HasPrefix(r.URL.Path, "/answers/"):
			payload := api.AnswerStatus{Status: status}
			if status.Terminal() {
				payload.AnswerEncoded = "ZG9uZQ=="
			}
			json.NewEncoder(w).Encode(payload)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	})
}

func TestWatchCmdBuildsLiveSnapshot(t *testing.T) {
	_, store := newTestEnv(t, watchTestHandler(t, api.StatusDone))
	require.NoError(t, store.Login("tok-1", "alice"))

	viper.Set("poll.job_interval", "5ms")
	viper.Set("poll.answer_interval", "5ms")
	defer func() {
		viper.Set("poll.job_interval", nil)
		viper.Set("poll.answer_interval", nil)
	}()

	originalRun := runDashboard
	defer func() { runDashboard = originalRun }()

	var captured ui.JobSnapshot
	runDashboard = func(fetch func() ui.JobSnapshot) error {
		// Headless stand-in for the TUI loop: read snapshots until the
		// watchers converge.
		assert.Eventually(t, func() bool {
			captured = fetch()
			return captured.Finished()
		}, 2*time.Second, 10*time.Millisecond)
		return nil
	}

	cmd := &cobra.Command{Use: "watch", RunE: runWatchCmd}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"7"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "7", captured.JobID)
	assert.Equal(t, "thesis-review", captured.Name)
	assert.Equal(t, api.StatusDone, captured.Status)
	require.Len(t, captured.Files, 1)
	assert.True(t, captured.Files[0].DownloadsEnabled)
	require.Len(t, captured.Answers, 1)
	assert.True(t, captured.Answers[0].Ready)
	assert.Equal(t, "What is the main claim?", captured.Answers[0].Question)
}

func TestWatchCmdPendingSnapshotKeepsDownloadsGated(t *testing.T) {
	_, store := newTestEnv(t, watchTestHandler(t, api.StatusPending))
	require.NoError(t, store.Login("tok-1", "alice"))

	viper.Set("poll.job_interval", "5ms")
	viper.Set("poll.answer_interval", "5ms")
	defer func() {
		viper.Set("poll.job_interval", nil)
		viper.Set("poll.answer_interval", nil)
	}()

	originalRun := runDashboard
	defer func() { runDashboard = originalRun }()

	var captured ui.JobSnapshot
	runDashboard = func(fetch func() ui.JobSnapshot) error {
		time.Sleep(50 * time.Millisecond)
		captured = fetch()
		return nil
	}

	cmd := &cobra.Command{Use: "watch", RunE: runWatchCmd}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"7"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, api.StatusPending, captured.Status)
	require.Len(t, captured.Files, 1)
	assert.False(t, captured.Files[0].DownloadsEnabled)
	require.Len(t, captured.Answers, 1)
	assert.False(t, captured.Answers[0].Ready)
}
