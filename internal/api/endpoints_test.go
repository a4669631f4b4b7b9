package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_LoginStoresNothingItself(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice@example.com", creds["email"])
		assert.Equal(t, "hunter2", creds["password"])

		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "rt-1", HttpOnly: true})
		json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok-1", TokenType: "bearer", User: "alice"})
	}))
	defer server.Close()

	client, store := newTestClient(t, server.URL)

	out, err := client.Login(context.Background(), "alice@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", out.AccessToken)
	assert.Equal(t, "alice", out.User)

	// Persisting the session is the caller's decision, not the client's.
	assert.False(t, store.Load().Authenticated())
}

func TestClient_LoginError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Detail)
}

func TestClient_CreateJobMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "thesis-review", r.FormValue("name"))

		questions := r.MultipartForm.Value["questions"]
		require.Len(t, questions, 2)

		var q0, q1 NewQuestion
		require.NoError(t, json.Unmarshal([]byte(questions[0]), &q0))
		require.NoError(t, json.Unmarshal([]byte(questions[1]), &q1))
		assert.Equal(t, "What is the sample size?", q0.Text)
		assert.Equal(t, "None", q0.PossibleOptions)
		assert.Equal(t, "yes, no", q1.PossibleOptions)

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "paper.pdf", files[0].Filename)

		json.NewEncoder(w).Encode(JobSummary{ID: 7, Name: "thesis-review"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	out, err := client.CreateJob(context.Background(), "thesis-review",
		[]NewQuestion{
			{Text: "What is the sample size?", PossibleOptions: "None"},
			{Text: "Is the study randomized?", PossibleOptions: "yes, no"},
		},
		[]Upload{{Filename: "paper.pdf", Data: []byte("%PDF-1.4")}},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 7, out.ID)
}

func TestClient_AnswerStatusDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/answers/12", r.URL.Path)
		json.NewEncoder(w).Encode(AnswerStatus{Status: StatusDone, AnswerEncoded: "B"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	out, err := client.Answer(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, out.Status)
	assert.Equal(t, "B", out.AnswerEncoded)
}

func TestClient_AnswerDetail(t *testing.T) {
	detail := AnswerDetail{
		Filename:      "paper.pdf",
		QuestionText:  "Is the study randomized?",
		AnswerEncoded: "yes",
		AnswerText:    "The study uses a randomized design.",
		AnswerContexts: []AnswerContext{
			{Context: "Participants were randomly assigned...", Score: 0.92},
		},
		AnswerConversation: []ConversationTurn{
			{Question: "What design is described?", Answer: "Randomized controlled trial."},
		},
		Evaluation: map[string]map[string]float64{
			"ragas": {"faithfulness": 0.9},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/answers/12/detail", r.URL.Path)
		json.NewEncoder(w).Encode(detail)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	out, err := client.AnswerDetail(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, detail, out)
}

func TestClient_Downloads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/3":
			w.Write([]byte("pdf-bytes"))
		case "/files/partial_report/3/md":
			w.Write([]byte("# Report"))
		case "/files/main_encoded_raport/9":
			w.Write([]byte("csv-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, client.DownloadFile(ctx, 3, &buf))
	assert.Equal(t, "pdf-bytes", buf.String())

	buf.Reset()
	require.NoError(t, client.PartialReport(ctx, 3, "md", &buf))
	assert.Equal(t, "# Report", buf.String())

	buf.Reset()
	require.NoError(t, client.MainReport(ctx, "9", "encoded", &buf))
	assert.Equal(t, "csv-bytes", buf.String())

	assert.Error(t, client.PartialReport(ctx, 3, "pdf", &buf))
	assert.Error(t, client.MainReport(ctx, "9", "full", &buf))
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusError.Terminal())
}
