package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docq/internal/api"
)

func TestJobsCmdListsJobs(t *testing.T) {
	_, store := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]api.JobSummary{
			{ID: 1, Name: "thesis-review"},
			{ID: 2, Name: "contract-check"},
		})
	}))
	require.NoError(t, store.Login("tok-1", "alice"))

	cmd := &cobra.Command{Use: "jobs", RunE: runJobsCmd}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "thesis-review")
	assert.Contains(t, buf.String(), "contract-check")
}

func TestJobsCmdEmptyList(t *testing.T) {
	_, store := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.JobSummary{})
	}))
	require.NoError(t, store.Login("tok-1", "alice"))

	cmd := &cobra.Command{Use: "jobs", RunE: runJobsCmd}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No jobs yet")
}

func TestJobShowCmdRendersDetail(t *testing.T) {
	_, store := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs/7", r.URL.Path)
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
	}))
	require.NoError(t, store.Login("tok-1", "alice"))

	cmd := &cobra.Command{Use: "show", RunE: runJobShowCmd}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"7"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "Job 7: thesis-review")
	assert.Contains(t, out, "chapter1.pdf")
	assert.Contains(t, out, "What is the main claim?")
}

func TestJobStopCmd(t *testing.T) {
	var stopped bool
	_, store := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs/7/stop", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		stopped = true
		w.WriteHeader(http.StatusOK)
	}))
	require.NoError(t, store.Login("tok-1", "alice"))

	cmd := &cobra.Command{Use: "stop", RunE: runJobStopCmd}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"7"})

	require.NoError(t, cmd.Execute())
	assert.True(t, stopped)
	assert.Contains(t, buf.String(), "Stop requested for job 7")
}
