package api

// Status is the processing state reported by the backend for jobs, files
// and answers.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Terminal reports whether the backend will never change this status again.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// JobSummary is a row in the jobs listing.
type JobSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Question is a single question attached to a job.
type Question struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// File is a document submitted with a job.
type File struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
}

// AnswerRef links a question and a file to the answer computed for them.
type AnswerRef struct {
	ID         int64 `json:"id"`
	FileID     int64 `json:"file_id"`
	QuestionID int64 `json:"question_id"`
}

// JobDetail is the full description of a job as returned by GET /jobs/{id}.
type JobDetail struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Questions []Question  `json:"questions"`
	Files     []File      `json:"files"`
	Answers   []AnswerRef `json:"answers"`
}

// JobStatus is the poll payload of GET /jobs/{id}/status.
type JobStatus struct {
	Status Status `json:"status"`
}

// AnswerStatus is the poll payload of GET /answers/{id}. The encoded answer
// is only present once processing finished.
type AnswerStatus struct {
	Status        Status `json:"status"`
	AnswerEncoded string `json:"answer_encoded,omitempty"`
}

// AnswerContext is a retrieved context passage with its relevance score.
type AnswerContext struct {
	Context string  `json:"context"`
	Score   float64 `json:"score"`
}

// ConversationTurn is one question/answer exchange recorded while the
// backend derived the final answer.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnswerDetail is the on-demand rich payload of GET /answers/{id}/detail.
type AnswerDetail struct {
	Filename                string                        `json:"filename"`
	QuestionText            string                        `json:"question_text"`
	QuestionPossibleOptions string                        `json:"question_possible_options"`
	AnswerEncoded           string                        `json:"answer_encoded"`
	AnswerText              string                        `json:"answer_text"`
	AnswerContexts          []AnswerContext               `json:"answer_contexts"`
	AnswerConversation      []ConversationTurn            `json:"answer_conversation"`
	Evaluation              map[string]map[string]float64 `json:"evaluation,omitempty"`
}

// LoginResponse is returned by POST /auth/login. The refresh token travels
// separately as an HTTP-only cookie.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        string `json:"user"`
}

// RefreshResponse is returned by POST /auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserInfo is returned by GET /auth/me.
type UserInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewQuestion is the client-side shape of a question submitted with a new
// job. PossibleOptions is the comma-joined option list, or "None".
type NewQuestion struct {
	Text            string `json:"text"`
	PossibleOptions string `json:"possible_options"`
}

// Upload is an in-memory file to attach to a job submission. Contents are
// buffered so the request body can be replayed on a token-refresh retry.
type Upload struct {
	Filename string
	Data     []byte
}
