// Package bridge implements the platform SDK surfaces as remote calls into
// the device's webview.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"miniapp-gateway/internal/platform"
)

// Call targets understood by the webview runtime.
const (
	TargetTelegram = "telegram"
	TargetVK       = "vk"
	TargetMax      = "max"
	TargetBrowser  = "browser"
)

// Caller performs one call on a device and returns the raw result.
type Caller interface {
	Call(ctx context.Context, deviceID uuid.UUID, target, method string, params any) (json.RawMessage, error)
}

// Surfaces exposes what the launch context says the device has. Checks that
// the snapshot already answers (method lists, navigator capabilities) never
// leave the gateway.
func Surfaces(caller Caller, deviceID uuid.UUID, lc *platform.LaunchContext) platform.Surfaces {
	var s platform.Surfaces
	if lc == nil || !lc.Window {
		return s
	}
	if lc.Telegram != nil {
		s.Telegram = &Telegram{caller: caller, device: deviceID, snapshot: lc.Telegram}
	}
	if lc.VKBridge {
		s.VK = &VK{caller: caller, device: deviceID}
	}
	if lc.Max != nil {
		s.Max = &Max{caller: caller, device: deviceID, snapshot: lc.Max}
	}
	s.Browser = &Browser{caller: caller, device: deviceID, caps: lc.Navigator}
	return s
}

type Telegram struct {
	caller   Caller
	device   uuid.UUID
	snapshot *platform.WebAppSnapshot
}

func (t *Telegram) Supports(method string) bool {
	return t.snapshot.Supports(method)
}

func (t *Telegram) OpenTelegramLink(ctx context.Context, url string) error {
	_, err := t.caller.Call(ctx, t.device, TargetTelegram, "openTelegramLink", map[string]string{"url": url})
	return err
}

func (t *Telegram) OpenLink(ctx context.Context, url string) error {
	_, err := t.caller.Call(ctx, t.device, TargetTelegram, "openLink", map[string]string{"url": url})
	return err
}

// ShareMessage accepts either a bare boolean or {"sent": bool} from the
// shareMessage callback.
func (t *Telegram) ShareMessage(ctx context.Context, id string) (bool, error) {
	raw, err := t.caller.Call(ctx, t.device, TargetTelegram, "shareMessage", map[string]string{"id": id})
	if err != nil {
		return false, err
	}
	var sent bool
	if json.Unmarshal(raw, &sent) == nil {
		return sent, nil
	}
	var wrapped struct {
		Sent bool `json:"sent"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return false, fmt.Errorf("decode shareMessage result: %w", err)
	}
	return wrapped.Sent, nil
}

type VK struct {
	caller Caller
	device uuid.UUID
}

func (v *VK) SupportsAsync(ctx context.Context, method string) (bool, error) {
	raw, err := v.caller.Call(ctx, v.device, TargetVK, "supportsAsync", map[string]string{"method": method})
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil {
		return false, fmt.Errorf("decode supportsAsync result: %w", err)
	}
	return ok, nil
}

func (v *VK) Send(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		return v.caller.Call(ctx, v.device, TargetVK, method, nil)
	}
	return v.caller.Call(ctx, v.device, TargetVK, method, params)
}

type Max struct {
	caller   Caller
	device   uuid.UUID
	snapshot *platform.WebAppSnapshot
}

func (m *Max) Supports(method string) bool {
	return m.snapshot.Supports(method)
}

func (m *Max) Share(ctx context.Context, payload platform.MaxShare) error {
	_, err := m.caller.Call(ctx, m.device, TargetMax, "share", payload)
	return err
}

type Browser struct {
	caller Caller
	device uuid.UUID
	caps   platform.NavigatorCaps
}

func (b *Browser) CanShare() bool          { return b.caps.Share }
func (b *Browser) CanWriteClipboard() bool { return b.caps.Clipboard }

func (b *Browser) Share(ctx context.Context, title, url, text string) error {
	payload := map[string]string{"title": title, "url": url}
	if text != "" {
		payload["text"] = text
	}
	_, err := b.caller.Call(ctx, b.device, TargetBrowser, "share", payload)
	return err
}

func (b *Browser) WriteClipboard(ctx context.Context, text string) error {
	_, err := b.caller.Call(ctx, b.device, TargetBrowser, "clipboard.writeText", map[string]string{"text": text})
	return err
}

func (b *Browser) Open(ctx context.Context, url string) error {
	_, err := b.caller.Call(ctx, b.device, TargetBrowser, "open", map[string]string{"url": url})
	return err
}

func (b *Browser) Navigate(ctx context.Context, path string) error {
	_, err := b.caller.Call(ctx, b.device, TargetBrowser, "navigate", map[string]string{"path": path})
	return err
}
