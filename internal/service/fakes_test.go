package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"miniapp-gateway/internal/backend"
	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/internal/referral"
	"miniapp-gateway/internal/repository/memory"
	"miniapp-gateway/internal/session"
	"miniapp-gateway/internal/share"
	"miniapp-gateway/internal/social"
	"miniapp-gateway/internal/task"
	"miniapp-gateway/internal/websocket"
	"miniapp-gateway/pkg/events"
)

func signedInToken(t *testing.T) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"user": 5})
	require.NoError(t, err)
	return "e30." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

type fakeHub struct {
	mu      sync.Mutex
	calls   []string
	replies map[string]string
	errs    map[string]error
	// blocks holds a call until its channel is closed.
	blocks map[string]chan struct{}
	pushed []websocket.Message
}

func newFakeHub() *fakeHub {
	return &fakeHub{replies: map[string]string{}, errs: map[string]error{}, blocks: map[string]chan struct{}{}}
}

func (h *fakeHub) Call(_ context.Context, _ uuid.UUID, target, method string, _ any) (json.RawMessage, error) {
	key := target + "." + method
	h.mu.Lock()
	block := h.blocks[key]
	h.mu.Unlock()
	if block != nil {
		<-block
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, key)
	if err := h.errs[key]; err != nil {
		return nil, err
	}
	if reply, ok := h.replies[key]; ok {
		return json.RawMessage(reply), nil
	}
	return json.RawMessage("null"), nil
}

func (h *fakeHub) Push(_ context.Context, _ uuid.UUID, msg websocket.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushed = append(h.pushed, msg)
	return nil
}

func (h *fakeHub) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *fakeHub) ToastKeys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := []string{}
	for _, m := range h.pushed {
		if m.Type != websocket.TypeToast {
			continue
		}
		var f ToastFrame
		if json.Unmarshal(m.Data, &f) == nil {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

func (h *fakeHub) Events() []EventFrame {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []EventFrame
	for _, m := range h.pushed {
		if m.Type != websocket.TypeEvent {
			continue
		}
		var f EventFrame
		if json.Unmarshal(m.Data, &f) == nil {
			out = append(out, f)
		}
	}
	return out
}

type fakeBackend struct {
	mu       sync.Mutex
	token    string
	issueErr error
	issued   []session.TokenRequest
	tasks    task.ListResponse
	check    task.CheckResult
	frens    social.FrensResponse
	frensErr error
	bearers  []string
	tokens   backend.TokenSource
}

func (b *fakeBackend) bearer(ctx context.Context) {
	if b.tokens == nil {
		return
	}
	tok, _ := b.tokens(ctx)
	b.bearers = append(b.bearers, tok)
}

func (b *fakeBackend) IssueToken(_ context.Context, req session.TokenRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued = append(b.issued, req)
	return b.token, b.issueErr
}

func (b *fakeBackend) GetTasks(ctx context.Context, _ task.ListRequest) (task.ListResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bearer(ctx)
	return b.tasks, nil
}

func (b *fakeBackend) CheckTask(ctx context.Context, _ int64) (task.CheckResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bearer(ctx)
	return b.check, nil
}

func (b *fakeBackend) PrepareShareMessage(context.Context, share.PreparedMessage) (string, error) {
	return "prepared-1", nil
}

func (b *fakeBackend) GetFrens(ctx context.Context, _ social.FrensRequest) (social.FrensResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bearer(ctx)
	return b.frens, b.frensErr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func (p *recordingPublisher) Last() events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type fixture struct {
	registry  *DeviceRegistry
	hub       *fakeHub
	backend   *fakeBackend
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		hub:       newFakeHub(),
		backend:   &fakeBackend{token: signedInToken(t)},
		publisher: &recordingPublisher{},
	}
	log := logger.NewNopLogger()
	f.registry = NewDeviceRegistry(RuntimeDeps{
		Hub: f.hub,
		Backend: func(tokens backend.TokenSource) BackendAPI {
			f.backend.tokens = tokens
			return f.backend
		},
		Storage:       memory.NewDeviceStorageRepository(0),
		Notifications: NewNotificationService(f.hub, log),
		Publisher:     f.publisher,
		Referral:      referral.Builder{Origin: "https://app.example", TelegramBot: "gamebot"},
		CheckDelay:    1,
		DefaultLocale: language.English,
		Logger:        log,
	}, 0)
	return f
}
