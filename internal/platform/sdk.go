package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// TelegramWebApp is the subset of window.Telegram.WebApp the gateway drives.
type TelegramWebApp interface {
	Supports(method string) bool
	OpenTelegramLink(ctx context.Context, url string) error
	OpenLink(ctx context.Context, url string) error
	// ShareMessage opens the native dialog for a prepared message. sent is
	// false when the user closed the dialog without sharing.
	ShareMessage(ctx context.Context, id string) (sent bool, err error)
}

// VKBridge is the subset of @vkontakte/vk-bridge the gateway drives.
type VKBridge interface {
	SupportsAsync(ctx context.Context, method string) (bool, error)
	Send(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
}

// MaxShare is the payload of WebApp.share in MAX.
type MaxShare struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

// MaxWebApp is the subset of the MAX window.WebApp the gateway drives.
type MaxWebApp interface {
	Supports(method string) bool
	Share(ctx context.Context, payload MaxShare) error
}

// Browser covers the plain web APIs: Web Share, clipboard, window.open and
// in-app routing.
type Browser interface {
	CanShare() bool
	Share(ctx context.Context, title, url, text string) error
	CanWriteClipboard() bool
	WriteClipboard(ctx context.Context, text string) error
	Open(ctx context.Context, url string) error
	Navigate(ctx context.Context, path string) error
}

// Surfaces bundles whatever SDK objects the host exposes. Absent ones are nil.
type Surfaces struct {
	Telegram TelegramWebApp
	VK       VKBridge
	Max      MaxWebApp
	Browser  Browser
}

// BridgeError is a failure reported by a host SDK call.
type BridgeError struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func (e *BridgeError) Error() string {
	switch {
	case e.Code != 0 && e.Reason != "":
		return fmt.Sprintf("%s: code %d: %s", e.name(), e.Code, e.Reason)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.name(), e.Message)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", e.name(), e.Reason)
	}
	return e.name()
}

func (e *BridgeError) name() string {
	if e.Name == "" {
		return "BridgeError"
	}
	return e.Name
}

// IsAbort reports whether err is the DOMException raised when the user
// dismisses the native share sheet.
func IsAbort(err error) bool {
	var be *BridgeError
	return errors.As(err, &be) && be.Name == "AbortError"
}

// vkCancelCode is VK Bridge's "user denied" client error code.
const vkCancelCode = 4

var vkCancelPattern = regexp.MustCompile(`(?i)cancel|denied|abort`)

// IsVKCancel reports whether a VK Bridge failure means the user declined.
// Every check of VK's cancellation shape goes through here.
func IsVKCancel(err error) bool {
	var be *BridgeError
	if !errors.As(err, &be) {
		return false
	}
	if be.Code == vkCancelCode {
		return true
	}
	return vkCancelPattern.MatchString(be.Reason) || vkCancelPattern.MatchString(be.Message)
}
