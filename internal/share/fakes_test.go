package share

import (
	"context"
	"encoding/json"
	"sync"

	"miniapp-gateway/internal/platform"
)

type fakeBrowser struct {
	mu sync.Mutex

	canShare     bool
	canClipboard bool
	shareErr     error
	clipboardErr error
	openErr      error
	// block, when set, holds Share until it is closed.
	block chan struct{}

	calls []string
}

func (f *fakeBrowser) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBrowser) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBrowser) CanShare() bool          { return f.canShare }
func (f *fakeBrowser) CanWriteClipboard() bool { return f.canClipboard }

func (f *fakeBrowser) Share(_ context.Context, _, url, _ string) error {
	f.record("share " + url)
	if f.block != nil {
		<-f.block
	}
	return f.shareErr
}

func (f *fakeBrowser) WriteClipboard(_ context.Context, text string) error {
	f.record("clipboard " + text)
	return f.clipboardErr
}

func (f *fakeBrowser) Open(_ context.Context, url string) error {
	f.record("open " + url)
	return f.openErr
}

func (f *fakeBrowser) Navigate(_ context.Context, path string) error {
	f.record("navigate " + path)
	return nil
}

type fakeTelegram struct {
	methods []string
	sent    bool
	err     error
	calls   []string
}

func (f *fakeTelegram) Supports(method string) bool {
	for _, m := range f.methods {
		if m == method {
			return true
		}
	}
	return false
}

func (f *fakeTelegram) OpenTelegramLink(_ context.Context, url string) error {
	f.calls = append(f.calls, "openTelegramLink "+url)
	return f.err
}

func (f *fakeTelegram) OpenLink(_ context.Context, url string) error {
	f.calls = append(f.calls, "openLink "+url)
	return f.err
}

func (f *fakeTelegram) ShareMessage(_ context.Context, id string) (bool, error) {
	f.calls = append(f.calls, "shareMessage "+id)
	return f.sent, f.err
}

type fakePreparer struct {
	id  string
	err error
	got []PreparedMessage
}

func (f *fakePreparer) PrepareShareMessage(_ context.Context, msg PreparedMessage) (string, error) {
	f.got = append(f.got, msg)
	return f.id, f.err
}

type vkCall struct {
	Method string
	Params map[string]any
}

type fakeVK struct {
	supported map[string]bool
	// errs is consumed one entry per Send call; missing entries succeed.
	errs  []error
	calls []vkCall
}

func (f *fakeVK) SupportsAsync(_ context.Context, method string) (bool, error) {
	return f.supported[method], nil
}

func (f *fakeVK) Send(_ context.Context, method string, params map[string]any) (json.RawMessage, error) {
	f.calls = append(f.calls, vkCall{Method: method, Params: params})
	if len(f.errs) == 0 {
		return json.RawMessage(`{"result":true}`), nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return nil, err
}

type fakeMax struct {
	supports bool
	err      error
	got      []platform.MaxShare
}

func (f *fakeMax) Supports(method string) bool { return f.supports && method == "share" }

func (f *fakeMax) Share(_ context.Context, payload platform.MaxShare) error {
	f.got = append(f.got, payload)
	return f.err
}
