package platform

import (
	"context"
	"errors"
	"strings"
)

// LinkStory marks tasks whose "link" is a story post made inside the host
// app; there is nothing to open for it.
const LinkStory = "story"

var ErrNoOpener = errors.New("no way to open link")

// Navigator opens external links the way the current host prefers.
type Navigator struct {
	Telegram TelegramWebApp
	Browser  Browser
	// Launch is the context the page was opened with; in-app routes keep
	// its VK launch params.
	Launch *LaunchContext
}

func NewNavigator(s Surfaces, lc *LaunchContext) *Navigator {
	return &Navigator{Telegram: s.Telegram, Browser: s.Browser, Launch: lc}
}

// Open prefers the Telegram in-app openers, then a new browser tab, then an
// in-app route for relative paths. Inside VK the route carries the vk_* and
// sign params, otherwise the next page no longer detects VK.
func (n *Navigator) Open(ctx context.Context, link string) error {
	if link == "" || link == LinkStory {
		return nil
	}

	if tg := n.Telegram; tg != nil {
		if strings.HasPrefix(link, "https://t.me/") && tg.Supports("openTelegramLink") {
			return tg.OpenTelegramLink(ctx, link)
		}
		if tg.Supports("openLink") && !isRelative(link) {
			return tg.OpenLink(ctx, link)
		}
	}

	if n.Browser == nil {
		return ErrNoOpener
	}

	if isRelative(link) {
		return n.Browser.Navigate(ctx, AppendVKLaunchParams(link, n.Launch.Origin(), VKLaunchParams(n.Launch)))
	}
	return n.Browser.Open(ctx, link)
}

func isRelative(link string) bool {
	return strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//")
}
