// Package backend is the HTTP client of the external backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"miniapp-gateway/internal/session"
	"miniapp-gateway/internal/share"
	"miniapp-gateway/internal/social"
	"miniapp-gateway/internal/task"
)

const (
	PathIssueToken   = "/users/token/"
	PathTasksGet     = "/tasks/get/"
	PathTasksCheck   = "/tasks/check/"
	PathShareMessage = "/users/share/tg/"
	PathFrens        = "/users/frens/"
)

// APIError is a non-2xx backend reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend api error (status %d)", e.Status)
	}
	return fmt.Sprintf("backend api error (status %d): %s", e.Status, e.Message)
}

// UserMessage is the backend's own explanation, if it sent one.
func (e *APIError) UserMessage() string {
	return e.Message
}

// TokenSource returns the bearer token for a request; "" sends none.
type TokenSource func(ctx context.Context) (string, error)

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithTokenSource returns a client that authorizes every call with tokens.
func (c *Client) WithTokenSource(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return fmt.Errorf("auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// errorMessage digs the human readable part out of an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	for _, field := range []json.RawMessage{body.Error, body.Detail} {
		var s string
		if json.Unmarshal(field, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) IssueToken(ctx context.Context, req session.TokenRequest) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, PathIssueToken, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// GetTasks tolerates a single task object where a list is expected.
func (c *Client) GetTasks(ctx context.Context, req task.ListRequest) (task.ListResponse, error) {
	var resp struct {
		Tasks   json.RawMessage `json:"tasks"`
		Balance *int64          `json:"balance"`
	}
	if err := c.post(ctx, PathTasksGet, req, &resp); err != nil {
		return task.ListResponse{}, err
	}
	tasks, err := decodeTasks(resp.Tasks)
	if err != nil {
		return task.ListResponse{}, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return task.ListResponse{Tasks: tasks, Balance: resp.Balance}, nil
}

func decodeTasks(raw json.RawMessage) ([]task.Task, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []task.Task{}, nil
	}
	if trimmed[0] == '{' {
		var single task.Task
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, err
		}
		return []task.Task{single}, nil
	}
	var tasks []task.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CheckTask(ctx context.Context, id int64) (task.CheckResult, error) {
	var resp task.CheckResult
	err := c.post(ctx, PathTasksCheck, map[string]int64{"id": id}, &resp)
	return resp, err
}

func (c *Client) PrepareShareMessage(ctx context.Context, msg share.PreparedMessage) (string, error) {
	var resp struct {
		ID             string `json:"id"`
		ExpirationDate int64  `json:"expiration_date"`
	}
	if err := c.post(ctx, PathShareMessage, msg, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("empty prepared message id")
	}
	return resp.ID, nil
}

func (c *Client) GetFrens(ctx context.Context, req social.FrensRequest) (social.FrensResponse, error) {
	var resp social.FrensResponse
	if err := c.post(ctx, PathFrens, req, &resp); err != nil {
		return social.FrensResponse{}, err
	}
	if resp.Frens == nil {
		resp.Frens = []social.Fren{}
	}
	return resp, nil
}
