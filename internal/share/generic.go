package share

import (
	"context"

	"miniapp-gateway/internal/platform"
)

const (
	ViaNative    = "browser.share"
	ViaClipboard = "browser.clipboard"
)

// Request is what the user asked to share.
type Request struct {
	Title string `json:"title"`
	URL   string `json:"url" validate:"required,url"`
	Text  string `json:"text,omitempty"`
}

// NativeShare tries navigator.share. A dismissed sheet is a cancellation and
// ends the chain; the clipboard is not tried afterwards.
func NativeShare(browser platform.Browser, req Request) Attempt {
	return Attempt{Name: ViaNative, Run: func(ctx context.Context) Result {
		if browser == nil || !browser.CanShare() {
			return Failed(ErrUnsupported)
		}
		if err := browser.Share(ctx, req.Title, req.URL, req.Text); err != nil {
			if platform.IsAbort(err) {
				return Cancelled()
			}
			return Failed(err)
		}
		return Shared()
	}}
}

// Clipboard copies the URL. It is the last generic tier, so an unsupported
// clipboard means sharing is unavailable.
func Clipboard(browser platform.Browser, req Request) Attempt {
	return Attempt{Name: ViaClipboard, Run: func(ctx context.Context) Result {
		if browser == nil || !browser.CanWriteClipboard() {
			return Failed(ErrUnavailable)
		}
		if err := browser.WriteClipboard(ctx, req.URL); err != nil {
			return Failed(err)
		}
		return Shared()
	}}
}

// GenericAttempts is the plain-browser chain.
func GenericAttempts(browser platform.Browser, req Request) []Attempt {
	return []Attempt{NativeShare(browser, req), Clipboard(browser, req)}
}
