package share

import (
	"context"
	"net/url"

	"miniapp-gateway/internal/platform"
)

// Bridge is the host-specific part of a referral share. Each variant lists
// its own tiers; the dispatcher appends the generic chain.
type Bridge interface {
	Network() platform.Network
	Attempts(req Request) []Attempt
}

// PreparedMessage is the payload of a Telegram prepared inline message.
type PreparedMessage struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Button string `json:"button,omitempty"`
	Image  string `json:"image,omitempty"`
}

// MessagePreparer obtains a short-lived prepared message id from the backend.
type MessagePreparer interface {
	PrepareShareMessage(ctx context.Context, msg PreparedMessage) (string, error)
}

type Options struct {
	Preparer MessagePreparer
	// Button labels the prepared message's inline button.
	Button string
	Image  string
}

// BridgeFor picks the variant for the host lc runs in.
func BridgeFor(lc *platform.LaunchContext, s platform.Surfaces, opts Options) Bridge {
	switch platform.DetectNetwork(lc) {
	case platform.NetworkTelegram:
		return &TelegramBridge{WebApp: s.Telegram, Browser: s.Browser, Options: opts}
	case platform.NetworkVK:
		return &VKBridge{Bridge: s.VK, Embedded: platform.IsVKEmbedded(lc)}
	case platform.NetworkMax:
		return &MaxBridge{WebApp: s.Max}
	}
	return NoneBridge{}
}

type NoneBridge struct{}

func (NoneBridge) Network() platform.Network  { return platform.NetworkWeb }
func (NoneBridge) Attempts(Request) []Attempt { return nil }

const (
	ViaTelegramMessage = "telegram.shareMessage"
	ViaTelegramLink    = "telegram.shareLink"
)

type TelegramBridge struct {
	WebApp  platform.TelegramWebApp
	Browser platform.Browser
	Options Options
}

func (b *TelegramBridge) Network() platform.Network { return platform.NetworkTelegram }

func (b *TelegramBridge) Attempts(req Request) []Attempt {
	return []Attempt{
		{Name: ViaTelegramMessage, Run: func(ctx context.Context) Result {
			if b.WebApp == nil || b.Options.Preparer == nil || !b.WebApp.Supports("shareMessage") {
				return Failed(ErrUnsupported)
			}
			id, err := b.Options.Preparer.PrepareShareMessage(ctx, PreparedMessage{
				URL:    req.URL,
				Text:   req.Text,
				Button: b.Options.Button,
				Image:  b.Options.Image,
			})
			if err != nil {
				return Failed(err)
			}
			sent, err := b.WebApp.ShareMessage(ctx, id)
			if err != nil {
				return Failed(err)
			}
			if !sent {
				return Cancelled()
			}
			return Shared()
		}},
		{Name: ViaTelegramLink, Run: func(ctx context.Context) Result {
			link := TelegramShareURL(req.URL, req.Text)
			var err error
			switch {
			case b.WebApp != nil && b.WebApp.Supports("openTelegramLink"):
				err = b.WebApp.OpenTelegramLink(ctx, link)
			case b.Browser != nil:
				err = b.Browser.Open(ctx, link)
			default:
				return Failed(ErrUnsupported)
			}
			if err != nil {
				return Failed(err)
			}
			return Shared()
		}},
	}
}

// TelegramShareURL builds the t.me/share/url link Telegram opens as a chat
// picker.
func TelegramShareURL(target, text string) string {
	q := url.Values{}
	q.Set("url", target)
	if text != "" {
		q.Set("text", text)
	}
	return "https://t.me/share/url?" + q.Encode()
}

const (
	VKMethodInviteBox = "VKWebAppShowInviteBox"
	VKMethodRecommend = "VKWebAppRecommend"
	VKMethodShare     = "VKWebAppShare"
)

type VKBridge struct {
	Bridge platform.VKBridge
	// Embedded is true inside the VK mobile clients, the only place the
	// invite box exists.
	Embedded bool
}

func (b *VKBridge) Network() platform.Network { return platform.NetworkVK }

func (b *VKBridge) Attempts(req Request) []Attempt {
	var attempts []Attempt
	if b.Embedded {
		var params map[string]any
		if req.Text != "" {
			params = map[string]any{"message": req.Text}
		}
		attempts = append(attempts, b.method(VKMethodInviteBox, params))
	}
	attempts = append(attempts, b.method(VKMethodRecommend, nil))

	variants := []map[string]any{{"link": req.URL}}
	if req.Text != "" {
		variants = []map[string]any{{"link": req.URL, "text": req.Text}, {"link": req.URL}}
	}
	return append(attempts, b.method(VKMethodShare, variants...))
}

// method checks support first, then sends each params variant in turn until
// one is accepted. A user cancellation stops immediately.
func (b *VKBridge) method(name string, variants ...map[string]any) Attempt {
	if len(variants) == 0 {
		variants = []map[string]any{nil}
	}
	return Attempt{Name: "vk." + name, Run: func(ctx context.Context) Result {
		if b.Bridge == nil {
			return Failed(ErrUnsupported)
		}
		ok, err := b.Bridge.SupportsAsync(ctx, name)
		if err != nil || !ok {
			return Failed(ErrUnsupported)
		}
		var lastErr error
		for _, params := range variants {
			_, err := b.Bridge.Send(ctx, name, params)
			if err == nil {
				return Shared()
			}
			if platform.IsVKCancel(err) {
				return Cancelled()
			}
			lastErr = err
		}
		return Failed(lastErr)
	}}
}

const ViaMax = "max.share"

type MaxBridge struct {
	WebApp platform.MaxWebApp
}

func (b *MaxBridge) Network() platform.Network { return platform.NetworkMax }

func (b *MaxBridge) Attempts(req Request) []Attempt {
	return []Attempt{{Name: ViaMax, Run: func(ctx context.Context) Result {
		if b.WebApp == nil || !b.WebApp.Supports("share") {
			return Failed(ErrUnsupported)
		}
		err := b.WebApp.Share(ctx, platform.MaxShare{URL: req.URL, Title: req.Title, Text: req.Text})
		if err != nil {
			return Failed(err)
		}
		return Shared()
	}}}
}
