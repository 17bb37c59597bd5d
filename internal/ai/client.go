// Package ai is a thin client for the external tutoring service. Calls
// are single-attempt with a bounded timeout; failures degrade to fixed
// fallback payloads so homework submission never hard-fails on the
// tutoring dependency.
package ai

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/architect/natural-teacher/pkg/logger"
	"go.uber.org/zap"
)

const healthCacheTTL = 5 * time.Minute

// AnalyzeRequest carries one homework submission to the tutoring service.
type AnalyzeRequest struct {
	Content       string `json:"content"`
	FileURL       string `json:"file_path,omitempty"`
	SubjectID     uint   `json:"subject_id"`
	SessionID     uint   `json:"session_id"`
	StudentAge    int    `json:"student_age"`
	StudentLevel  int    `json:"student_level"`
	LearningStyle string `json:"learning_style"`
}

// AnalyzeResult is the tutoring service's reply to a submission.
type AnalyzeResult struct {
	Content             string   `json:"content"`
	ExplanationLevel    int      `json:"explanation_level"`
	CreatedByAgent      string   `json:"created_by_agent"`
	AdditionalResources []string `json:"additional_resources"`
}

// ConversationRequest carries one turn of a live tutoring conversation.
type ConversationRequest struct {
	Message       string `json:"message"`
	SessionID     uint   `json:"session_id"`
	SubjectID     uint   `json:"subject_id"`
	StudentAge    int    `json:"student_age"`
	StudentLevel  int    `json:"student_level"`
	LearningStyle string `json:"learning_style"`
}

// Client talks to the tutoring service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client

	mu            sync.Mutex
	healthyUntil  time.Time
	healthyCached bool
}

// NewClient creates a client with the given base URL and per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Default is the process-wide client, wired in main.
var Default *Client

// Init sets up the default client.
func Init(baseURL string, timeout time.Duration) {
	Default = NewClient(baseURL, timeout)
}

// fallbackAnalysis is returned whenever the tutoring service cannot answer.
func fallbackAnalysis() *AnalyzeResult {
	return &AnalyzeResult{
		Content:             "I'm sorry, I'm having trouble processing your homework right now. Please try again later.",
		ExplanationLevel:    1,
		CreatedByAgent:      "Error Handler",
		AdditionalResources: []string{},
	}
}

const fallbackReply = "Sorry, I am having trouble responding right now."

// AnalyzeHomework submits homework for analysis. Never returns an error:
// upstream failures yield the fallback payload.
func (c *Client) AnalyzeHomework(req *AnalyzeRequest) *AnalyzeResult {
	var result AnalyzeResult
	if err := c.post("/analyze-homework", req, &result); err != nil {
		logger.Error("tutoring service analyze call failed",
			zap.Uint("session_id", req.SessionID), zap.Error(err))
		return fallbackAnalysis()
	}
	if result.Content == "" {
		return fallbackAnalysis()
	}
	return &result
}

// ContinueConversation relays one conversation turn and returns the reply.
func (c *Client) ContinueConversation(req *ConversationRequest) string {
	var result struct {
		Reply string `json:"reply"`
	}
	if err := c.post("/real-time-conversation", req, &result); err != nil {
		logger.Error("tutoring service conversation call failed",
			zap.Uint("session_id", req.SessionID), zap.Error(err))
		return fallbackReply
	}
	if result.Reply == "" {
		return fallbackReply
	}
	return result.Reply
}

// Healthy reports whether the tutoring service answered its health
// endpoint recently. Results are cached for five minutes.
func (c *Client) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.healthyUntil) {
		return c.healthyCached
	}

	healthy := false
	resp, err := c.http.Get(c.baseURL + "/health")
	if err == nil {
		var body struct {
			Status string `json:"status"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			healthy = body.Status == "healthy"
		}
		resp.Body.Close()
	}

	c.healthyCached = healthy
	c.healthyUntil = time.Now().Add(healthCacheTTL)
	return healthy
}

func (c *Client) post(path string, payload, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(dest)
}
