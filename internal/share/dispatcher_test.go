package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"miniapp-gateway/internal/i18n"
	"miniapp-gateway/internal/notify"
	"miniapp-gateway/internal/platform"
)

var req = Request{Title: "Invite", URL: "https://app.example.com/ru?utm=abc", Text: "Join me"}

func TestDispatcherGenericShare(t *testing.T) {
	tests := []struct {
		name      string
		browser   *fakeBrowser
		status    Status
		via       string
		toasts    []string
		available bool
	}{
		{
			name:      "native share succeeds",
			browser:   &fakeBrowser{canShare: true, canClipboard: true},
			status:    StatusShared,
			via:       ViaNative,
			toasts:    []string{i18n.KeyShareShared},
			available: true,
		},
		{
			name:      "abort is silent and skips clipboard",
			browser:   &fakeBrowser{canShare: true, canClipboard: true, shareErr: &platform.BridgeError{Name: "AbortError"}},
			status:    StatusCancelled,
			via:       ViaNative,
			toasts:    []string{},
			available: true,
		},
		{
			name:      "native unsupported, clipboard succeeds",
			browser:   &fakeBrowser{canClipboard: true},
			status:    StatusShared,
			via:       ViaClipboard,
			toasts:    []string{i18n.KeyShareCopied},
			available: true,
		},
		{
			name:      "native fails, falls through to clipboard",
			browser:   &fakeBrowser{canShare: true, canClipboard: true, shareErr: &platform.BridgeError{Name: "NotAllowedError"}},
			status:    StatusShared,
			via:       ViaClipboard,
			toasts:    []string{i18n.KeyShareCopied},
			available: true,
		},
		{
			name:      "native fails without clipboard",
			browser:   &fakeBrowser{canShare: true, shareErr: errors.New("denied")},
			status:    StatusFailed,
			toasts:    []string{i18n.KeyShareUnavailable},
			available: true,
		},
		{
			name:    "both unsupported",
			browser: &fakeBrowser{},
			status:  StatusFailed,
			toasts:  []string{i18n.KeyShareUnavailable},
		},
		{
			name:      "clipboard write throws",
			browser:   &fakeBrowser{canClipboard: true, clipboardErr: errors.New("document not focused")},
			status:    StatusFailed,
			toasts:    []string{i18n.KeySystemError},
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			d := NewDispatcher(tt.browser, nil, rec)

			res, err := d.Share(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
			if tt.via != "" {
				assert.Equal(t, tt.via, res.Via)
			}
			assert.Equal(t, tt.toasts, rec.Keys())
			assert.Equal(t, tt.available, d.Available())
			assert.False(t, d.Sharing())
		})
	}
}

func TestDispatcherAbortDoesNotTouchClipboard(t *testing.T) {
	browser := &fakeBrowser{canShare: true, canClipboard: true, shareErr: &platform.BridgeError{Name: "AbortError"}}
	d := NewDispatcher(browser, nil, nil)

	_, err := d.Share(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"share " + req.URL}, browser.Calls())
}

func TestDispatcherSingleFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	browser := &fakeBrowser{canShare: true, block: make(chan struct{})}
	rec := &notify.Recorder{}
	d := NewDispatcher(browser, nil, rec)

	done := make(chan Result)
	go func() {
		res, _ := d.Share(context.Background(), req)
		done <- res
	}()

	require.Eventually(t, d.Sharing, time.Second, time.Millisecond)

	_, err := d.Share(context.Background(), req)
	assert.ErrorIs(t, err, ErrShareInProgress)

	close(browser.block)
	res := <-done
	assert.Equal(t, StatusShared, res.Status)
	assert.Len(t, browser.Calls(), 1)
	assert.Equal(t, []string{i18n.KeyShareShared}, rec.Keys())
	assert.False(t, d.Sharing())
}

func TestDispatcherRebindKeepsInFlightShare(t *testing.T) {
	defer goleak.VerifyNone(t)

	first := &fakeBrowser{canShare: true, block: make(chan struct{})}
	d := NewDispatcher(first, nil, nil)

	done := make(chan Result)
	go func() {
		res, _ := d.Share(context.Background(), req)
		done <- res
	}()
	require.Eventually(t, d.Sharing, time.Second, time.Millisecond)

	second := &fakeBrowser{canShare: true}
	d.Rebind(second, nil)
	assert.True(t, d.Sharing())

	_, err := d.Share(context.Background(), req)
	assert.ErrorIs(t, err, ErrShareInProgress)
	assert.Empty(t, second.Calls())

	close(first.block)
	assert.Equal(t, StatusShared, (<-done).Status)
	assert.Equal(t, platform.NetworkWeb, d.Network())

	res, err := d.Share(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusShared, res.Status)
	assert.Equal(t, []string{"share " + req.URL}, second.Calls())
	assert.Len(t, first.Calls(), 1)
}

func TestDispatcherReferralTelegram(t *testing.T) {
	t.Run("prepared message", func(t *testing.T) {
		tg := &fakeTelegram{methods: []string{"shareMessage", "openTelegramLink"}, sent: true}
		prep := &fakePreparer{id: "msg-1"}
		d := NewDispatcher(&fakeBrowser{}, &TelegramBridge{WebApp: tg, Options: Options{Preparer: prep, Button: "Open"}}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, StatusShared, res.Status)
		assert.Equal(t, ViaTelegramMessage, res.Via)
		assert.Equal(t, []string{"shareMessage msg-1"}, tg.calls)
		require.Len(t, prep.got, 1)
		assert.Equal(t, PreparedMessage{URL: req.URL, Text: req.Text, Button: "Open"}, prep.got[0])
	})

	t.Run("dialog closed without sending", func(t *testing.T) {
		tg := &fakeTelegram{methods: []string{"shareMessage", "openTelegramLink"}}
		rec := &notify.Recorder{}
		d := NewDispatcher(&fakeBrowser{}, &TelegramBridge{WebApp: tg, Options: Options{Preparer: &fakePreparer{id: "x"}}}, rec)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, res.Status)
		assert.Empty(t, rec.Keys())
	})

	t.Run("prepare fails, falls back to share link", func(t *testing.T) {
		tg := &fakeTelegram{methods: []string{"shareMessage", "openTelegramLink"}}
		d := NewDispatcher(&fakeBrowser{}, &TelegramBridge{WebApp: tg, Options: Options{Preparer: &fakePreparer{err: errors.New("500")}}}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, ViaTelegramLink, res.Via)
		assert.Equal(t, []string{"openTelegramLink " + TelegramShareURL(req.URL, req.Text)}, tg.calls)
	})

	t.Run("no telegram opener uses new tab", func(t *testing.T) {
		browser := &fakeBrowser{}
		d := NewDispatcher(browser, &TelegramBridge{WebApp: &fakeTelegram{}, Browser: browser}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, ViaTelegramLink, res.Via)
		assert.Equal(t, []string{"open " + TelegramShareURL(req.URL, req.Text)}, browser.Calls())
	})
}

func TestDispatcherReferralVK(t *testing.T) {
	all := map[string]bool{VKMethodInviteBox: true, VKMethodRecommend: true, VKMethodShare: true}

	t.Run("invite box when embedded", func(t *testing.T) {
		vk := &fakeVK{supported: all}
		d := NewDispatcher(&fakeBrowser{}, &VKBridge{Bridge: vk, Embedded: true}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "vk."+VKMethodInviteBox, res.Via)
		assert.Equal(t, []vkCall{{Method: VKMethodInviteBox, Params: map[string]any{"message": req.Text}}}, vk.calls)
	})

	t.Run("recommend outside mobile clients", func(t *testing.T) {
		vk := &fakeVK{supported: all}
		d := NewDispatcher(&fakeBrowser{}, &VKBridge{Bridge: vk}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "vk."+VKMethodRecommend, res.Via)
		assert.Equal(t, []vkCall{{Method: VKMethodRecommend}}, vk.calls)
	})

	t.Run("cancel is silent", func(t *testing.T) {
		vk := &fakeVK{supported: all, errs: []error{&platform.BridgeError{Code: 4, Reason: "User denied"}}}
		rec := &notify.Recorder{}
		browser := &fakeBrowser{canShare: true}
		d := NewDispatcher(browser, &VKBridge{Bridge: vk, Embedded: true}, rec)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, res.Status)
		assert.Len(t, vk.calls, 1)
		assert.Empty(t, browser.Calls())
		assert.Empty(t, rec.Keys())
	})

	t.Run("share retried without text", func(t *testing.T) {
		vk := &fakeVK{
			supported: map[string]bool{VKMethodShare: true},
			errs:      []error{&platform.BridgeError{Code: 5, Reason: "Invalid params"}},
		}
		d := NewDispatcher(&fakeBrowser{}, &VKBridge{Bridge: vk, Embedded: true}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "vk."+VKMethodShare, res.Via)
		assert.Equal(t, []vkCall{
			{Method: VKMethodShare, Params: map[string]any{"link": req.URL, "text": req.Text}},
			{Method: VKMethodShare, Params: map[string]any{"link": req.URL}},
		}, vk.calls)
	})

	t.Run("nothing supported falls back to generic chain", func(t *testing.T) {
		vk := &fakeVK{supported: map[string]bool{}}
		browser := &fakeBrowser{canClipboard: true}
		d := NewDispatcher(browser, &VKBridge{Bridge: vk}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, ViaClipboard, res.Via)
		assert.Empty(t, vk.calls)
	})
}

func TestDispatcherReferralMax(t *testing.T) {
	t.Run("native share", func(t *testing.T) {
		mx := &fakeMax{supports: true}
		d := NewDispatcher(&fakeBrowser{}, &MaxBridge{WebApp: mx}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, ViaMax, res.Via)
		assert.Equal(t, []platform.MaxShare{{URL: req.URL, Title: req.Title, Text: req.Text}}, mx.got)
	})

	t.Run("error falls through to generic chain", func(t *testing.T) {
		browser := &fakeBrowser{canShare: true}
		d := NewDispatcher(browser, &MaxBridge{WebApp: &fakeMax{supports: true, err: errors.New("boom")}}, nil)

		res, err := d.ShareReferral(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, ViaNative, res.Via)
	})
}

func TestBridgeFor(t *testing.T) {
	s := platform.Surfaces{Telegram: &fakeTelegram{}, VK: &fakeVK{}, Max: &fakeMax{}}

	tests := []struct {
		name string
		lc   *platform.LaunchContext
		want platform.Network
	}{
		{name: "web", lc: &platform.LaunchContext{Window: true, Href: "https://a.example/"}, want: platform.NetworkWeb},
		{name: "telegram", lc: &platform.LaunchContext{Window: true, Telegram: &platform.WebAppSnapshot{InitData: "x"}}, want: platform.NetworkTelegram},
		{name: "vk", lc: &platform.LaunchContext{Window: true, Href: "https://a.example/?vk_user_id=1&sign=s&vk_platform=mobile_android"}, want: platform.NetworkVK},
		{name: "max", lc: &platform.LaunchContext{Window: true, Max: &platform.WebAppSnapshot{HasUser: true}}, want: platform.NetworkMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BridgeFor(tt.lc, s, Options{}).Network())
		})
	}

	vk, ok := BridgeFor(tests[2].lc, s, Options{}).(*VKBridge)
	require.True(t, ok)
	assert.True(t, vk.Embedded)
}

func TestTelegramShareURL(t *testing.T) {
	assert.Equal(t, "https://t.me/share/url?text=Join+me&url=https%3A%2F%2Fa.example%2F%3Futm%3D1", TelegramShareURL("https://a.example/?utm=1", "Join me"))
	assert.Equal(t, "https://t.me/share/url?url=https%3A%2F%2Fa.example%2F", TelegramShareURL("https://a.example/", ""))
}
