package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, out any) error {
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}

	resp, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError turns a non-2xx response into an APIError, preserving the
// backend's {detail} message when one is present.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if jsonErr := json.Unmarshal(data, &payload); jsonErr == nil {
			apiErr.Detail = payload.Detail
		}
	}
	return apiErr
}

// Login authenticates with email and password. On success the server also
// sets the HTTP-only refresh cookie on the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.postJSON(ctx, "/auth/login", payload, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.postJSON(ctx, "/auth/register", payload, nil)
}

// Me returns the identity behind the current token.
func (c *Client) Me(ctx context.Context) (UserInfo, error) {
	var out UserInfo
	if err := c.getJSON(ctx, "/auth/me", &out); err != nil {
		return UserInfo{}, err
	}
	return out, nil
}

// ServerLogout invalidates the refresh cookie server-side. Clearing the
// local session store is the caller's responsibility.
func (c *Client) ServerLogout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", nil, nil)
}

// Jobs lists the current user's jobs.
func (c *Client) Jobs(ctx context.Context) ([]JobSummary, error) {
	var out []JobSummary
	if err := c.getJSON(ctx, "/jobs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Job fetches the full job description.
func (c *Client) Job(ctx context.Context, id string) (JobDetail, error) {
	var out JobDetail
	if err := c.getJSON(ctx, "/jobs/"+id, &out); err != nil {
		return JobDetail{}, err
	}
	return out, nil
}

// JobStatus fetches the processing status of a job.
func (c *Client) JobStatus(ctx context.Context, id string) (JobStatus, error) {
	var out JobStatus
	if err := c.getJSON(ctx, "/jobs/"+id+"/status", &out); err != nil {
		return JobStatus{}, err
	}
	return out, nil
}

// StopJob asks the backend to stop processing a job.
func (c *Client) StopJob(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/jobs/"+id+"/stop", nil, nil)
}

// Answer fetches the poll payload for a single answer.
func (c *Client) Answer(ctx context.Context, id int64) (AnswerStatus, error) {
	var out AnswerStatus
	if err := c.getJSON(ctx, fmt.Sprintf("/answers/%d", id), &out); err != nil {
		return AnswerStatus{}, err
	}
	return out, nil
}

// AnswerDetail fetches the rich one-shot payload for a finished answer.
func (c *Client) AnswerDetail(ctx context.Context, id int64) (AnswerDetail, error) {
	var out AnswerDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/answers/%d/detail", id), &out); err != nil {
		return AnswerDetail{}, err
	}
	return out, nil
}

// CreateJob submits a new job as multipart form data: a name field, one
// JSON-encoded questions field per question, and one files part per
// document.
func (c *Client) CreateJob(ctx context.Context, name string, questions []NewQuestion, uploads []Upload) (JobSummary, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", name); err != nil {
		return JobSummary{}, fmt.Errorf("failed to write name field: %w", err)
	}

	for _, q := range questions {
		encoded, err := json.Marshal(q)
		if err != nil {
			return JobSummary{}, fmt.Errorf("failed to encode question: %w", err)
		}
		if err := w.WriteField("questions", string(encoded)); err != nil {
			return JobSummary{}, fmt.Errorf("failed to write question field: %w", err)
		}
	}

	for _, u := range uploads {
		part, err := w.CreateFormFile("files", u.Filename)
		if err != nil {
			return JobSummary{}, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(u.Data); err != nil {
			return JobSummary{}, fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return JobSummary{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := c.Do(ctx, http.MethodPost, "/jobs", buf.Bytes(), w.FormDataContentType())
	if err != nil {
		return JobSummary{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return JobSummary{}, decodeAPIError(resp)
	}

	var out JobSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return JobSummary{}, fmt.Errorf("failed to decode job response: %w", err)
	}
	return out, nil
}

// DownloadFile streams a submitted document into w.
func (c *Client) DownloadFile(ctx context.Context, fileID int64, w io.Writer) error {
	return c.download(ctx, fmt.Sprintf("/files/%d", fileID), w)
}

// PartialReport streams the per-file report in the given format (json or
// md) into w.
func (c *Client) PartialReport(ctx context.Context, fileID int64, format string, w io.Writer) error {
	format = strings.ToLower(format)
	if format != "json" && format != "md" {
		return fmt.Errorf("unsupported report format: %q", format)
	}
	return c.download(ctx, fmt.Sprintf("/files/partial_report/%d/%s", fileID, format), w)
}

// MainReport streams the job-wide report into w. Kind is "encoded" for the
// compact report or "detailed" for the full one.
func (c *Client) MainReport(ctx context.Context, jobID, kind string, w io.Writer) error {
	kind = strings.ToLower(kind)
	if kind != "encoded" && kind != "detailed" {
		return fmt.Errorf("unsupported report kind: %q", kind)
	}
	return c.download(ctx, fmt.Sprintf("/files/main_%s_raport/%s", kind, jobID), w)
}

func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	resp, err := c.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read download body: %w", err)
	}
	return nil
}
