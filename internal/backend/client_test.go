package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniapp-gateway/internal/notify"
	"miniapp-gateway/internal/session"
	"miniapp-gateway/internal/share"
	"miniapp-gateway/internal/social"
	"miniapp-gateway/internal/task"
)

type recordedRequest struct {
	Path          string
	Authorization string
	Body          map[string]any
}

type requestLog struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.reqs...)
}

func newServer(t *testing.T, replies map[string]string, status int) (*httptest.Server, *requestLog) {
	t.Helper()
	seen := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		seen.mu.Lock()
		seen.reqs = append(seen.reqs, recordedRequest{Path: r.URL.Path, Authorization: r.Header.Get("Authorization"), Body: body})
		seen.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, replies[r.URL.Path])
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestIssueToken(t *testing.T) {
	srv, seen := newServer(t, map[string]string{PathIssueToken: `{"token":"jwt"}`}, http.StatusOK)
	c := NewClient(srv.URL+"/", time.Second)

	token, err := c.IssueToken(context.Background(), session.TokenRequest{
		Token:   "client",
		Network: "tg",
		Extra:   &session.Extra{Timezone: "UTC"},
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)

	require.Len(t, seen.all(), 1)
	got := seen.all()[0]
	assert.Equal(t, PathIssueToken, got.Path)
	assert.Empty(t, got.Authorization)
	assert.Equal(t, "client", got.Body["token"])
	assert.Equal(t, "tg", got.Body["network"])
	assert.NotContains(t, got.Body, "utm")
	assert.Equal(t, map[string]any{"timezone": "UTC"}, got.Body["extra"])
}

func TestGetTasks(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		ids   []int64
	}{
		{name: "list", reply: `{"tasks":[{"id":1,"status":1},{"id":2,"status":3}],"balance":7}`, ids: []int64{1, 2}},
		{name: "single object", reply: `{"tasks":{"id":5,"status":1}}`, ids: []int64{5}},
		{name: "null", reply: `{"tasks":null}`, ids: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newServer(t, map[string]string{PathTasksGet: tt.reply}, http.StatusOK)
			c := NewClient(srv.URL, time.Second).WithTokenSource(func(context.Context) (string, error) {
				return "auth", nil
			})

			resp, err := c.GetTasks(context.Background(), task.ListRequest{Limit: 100})
			require.NoError(t, err)

			ids := []int64{}
			for _, tk := range resp.Tasks {
				ids = append(ids, tk.ID)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, "Bearer auth", seen.all()[0].Authorization)
			assert.Equal(t, float64(100), seen.all()[0].Body["limit"])
		})
	}
}

func TestCheckTask(t *testing.T) {
	srv, seen := newServer(t, map[string]string{PathTasksCheck: `{"old":1,"new":3,"reward":5,"balance":15}`}, http.StatusOK)
	c := NewClient(srv.URL, time.Second)

	res, err := c.CheckTask(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 3, res.New)
	assert.Equal(t, int64(5), res.Reward)
	require.NotNil(t, res.Balance)
	assert.Equal(t, int64(15), *res.Balance)
	assert.Equal(t, map[string]any{"id": float64(42)}, seen.all()[0].Body)
}

func TestPrepareShareMessage(t *testing.T) {
	srv, seen := newServer(t, map[string]string{PathShareMessage: `{"id":"prep-1","expiration_date":1712345678}`}, http.StatusOK)
	c := NewClient(srv.URL, time.Second)

	id, err := c.PrepareShareMessage(context.Background(), share.PreparedMessage{URL: "https://a.example/?utm=1", Text: "Join"})
	require.NoError(t, err)
	assert.Equal(t, "prep-1", id)
	assert.Equal(t, "Join", seen.all()[0].Body["text"])
}

func TestGetFrens(t *testing.T) {
	srv, _ := newServer(t, map[string]string{PathFrens: `{"count":0,"referral_code":99}`}, http.StatusOK)
	c := NewClient(srv.URL, time.Second)

	resp, err := c.GetFrens(context.Background(), social.FrensRequest{Limit: 500})
	require.NoError(t, err)
	assert.Empty(t, resp.Frens)
	assert.NotNil(t, resp.Frens)
	assert.Equal(t, "99", resp.ReferralKey())
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		message string
	}{
		{name: "message field", reply: `{"message":"Task expired"}`, message: "Task expired"},
		{name: "error string", reply: `{"error":"denied"}`, message: "denied"},
		{name: "detail string", reply: `{"detail":"Not found"}`, message: "Not found"},
		{name: "structured detail", reply: `{"detail":[{"loc":["body"]}]}`, message: ""},
		{name: "html", reply: `<html>502</html>`, message: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, map[string]string{PathTasksCheck: tt.reply}, http.StatusBadGateway)
			c := NewClient(srv.URL, time.Second)

			_, err := c.CheckTask(context.Background(), 1)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadGateway, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.UserMessage())
			assert.Equal(t, tt.message, notify.FromError(err, "fallback").Message)
		})
	}
}

func TestTokenSourceError(t *testing.T) {
	srv, seen := newServer(t, nil, http.StatusOK)
	c := NewClient(srv.URL, time.Second).WithTokenSource(func(context.Context) (string, error) {
		return "", errors.New("storage down")
	})

	_, err := c.CheckTask(context.Background(), 1)
	assert.ErrorContains(t, err, "storage down")
	assert.Empty(t, seen.all())
}
