package bridge

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniapp-gateway/internal/platform"
)

type call struct {
	Target string
	Method string
	Params string
}

type scriptedCaller struct {
	replies map[string]string
	errs    map[string]error
	calls   []call
}

func (s *scriptedCaller) Call(_ context.Context, _ uuid.UUID, target, method string, params any) (json.RawMessage, error) {
	raw := ""
	if params != nil {
		b, _ := json.Marshal(params)
		raw = string(b)
	}
	s.calls = append(s.calls, call{Target: target, Method: method, Params: raw})
	key := target + "." + method
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	reply, ok := s.replies[key]
	if !ok {
		reply = "null"
	}
	return json.RawMessage(reply), nil
}

func TestSurfaces(t *testing.T) {
	caller := &scriptedCaller{}
	device := uuid.New()

	s := Surfaces(caller, device, nil)
	assert.Nil(t, s.Browser)

	s = Surfaces(caller, device, &platform.LaunchContext{Window: true, Navigator: platform.NavigatorCaps{Clipboard: true}})
	require.NotNil(t, s.Browser)
	assert.Nil(t, s.Telegram)
	assert.Nil(t, s.VK)
	assert.Nil(t, s.Max)
	assert.False(t, s.Browser.CanShare())
	assert.True(t, s.Browser.CanWriteClipboard())

	s = Surfaces(caller, device, &platform.LaunchContext{
		Window:   true,
		Telegram: &platform.WebAppSnapshot{Methods: []string{"shareMessage"}},
		Max:      &platform.WebAppSnapshot{},
		VKBridge: true,
	})
	require.NotNil(t, s.Telegram)
	assert.True(t, s.Telegram.Supports("shareMessage"))
	assert.False(t, s.Telegram.Supports("openLink"))
	assert.NotNil(t, s.VK)
	assert.False(t, s.Max.Supports("share"))
	assert.Empty(t, caller.calls)
}

func TestTelegramShareMessage(t *testing.T) {
	for reply, want := range map[string]bool{`true`: true, `false`: false, `{"sent":true}`: true} {
		caller := &scriptedCaller{replies: map[string]string{"telegram.shareMessage": reply}}
		tg := &Telegram{caller: caller, snapshot: &platform.WebAppSnapshot{}}

		sent, err := tg.ShareMessage(context.Background(), "m1")
		require.NoError(t, err, reply)
		assert.Equal(t, want, sent, reply)
		assert.Equal(t, []call{{Target: "telegram", Method: "shareMessage", Params: `{"id":"m1"}`}}, caller.calls)
	}
}

func TestVK(t *testing.T) {
	caller := &scriptedCaller{replies: map[string]string{"vk.supportsAsync": `true`, "vk.VKWebAppShare": `{"type":"message"}`}}
	vk := &VK{caller: caller}

	ok, err := vk.SupportsAsync(context.Background(), "VKWebAppShare")
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := vk.Send(context.Background(), "VKWebAppShare", map[string]any{"link": "https://a.example"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message"}`, string(raw))

	_, err = vk.Send(context.Background(), "VKWebAppRecommend", nil)
	require.NoError(t, err)

	assert.Equal(t, []call{
		{Target: "vk", Method: "supportsAsync", Params: `{"method":"VKWebAppShare"}`},
		{Target: "vk", Method: "VKWebAppShare", Params: `{"link":"https://a.example"}`},
		{Target: "vk", Method: "VKWebAppRecommend"},
	}, caller.calls)
}

func TestBrowserErrorsPassThrough(t *testing.T) {
	abort := &platform.BridgeError{Name: "AbortError", Message: "Share canceled"}
	caller := &scriptedCaller{errs: map[string]error{"browser.share": abort}}
	b := &Browser{caller: caller, caps: platform.NavigatorCaps{Share: true}}

	err := b.Share(context.Background(), "t", "https://a.example", "")
	assert.True(t, platform.IsAbort(err))
	assert.Equal(t, `{"title":"t","url":"https://a.example"}`, caller.calls[0].Params)

	require.NoError(t, b.WriteClipboard(context.Background(), "https://a.example"))
	require.NoError(t, b.Navigate(context.Background(), "/ru"))
	assert.Equal(t, "clipboard.writeText", caller.calls[1].Method)
	assert.Equal(t, `{"path":"/ru"}`, caller.calls[2].Params)
}

func TestMaxShare(t *testing.T) {
	caller := &scriptedCaller{}
	m := &Max{caller: caller, snapshot: &platform.WebAppSnapshot{Methods: []string{"share"}}}

	require.True(t, m.Supports("share"))
	require.NoError(t, m.Share(context.Background(), platform.MaxShare{URL: "u", Title: "t"}))
	assert.Equal(t, `{"url":"u","title":"t"}`, caller.calls[0].Params)
}
