// Package referral builds invite links that bring a new user back with the
// inviter's referral key attached.
package referral

import (
	"net/url"
	"regexp"
	"strings"

	"miniapp-gateway/internal/platform"
)

var vkAppPath = regexp.MustCompile(`/app(\d+)`)

// Builder holds the static parts of referral links. Origin is used when the
// launch context does not carry one.
type Builder struct {
	Origin      string
	Locale      string
	TelegramBot string
}

// Generic returns <origin>/<locale>?utm=<key>.
func (b Builder) Generic(lc *platform.LaunchContext, key string) string {
	origin := lc.Origin()
	if origin == "" {
		origin = strings.TrimRight(b.Origin, "/")
	}
	path := "/"
	if b.Locale != "" {
		path += url.PathEscape(b.Locale)
	}
	return origin + path + "?utm=" + url.QueryEscape(key)
}

// VK returns https://vk.com/app<id>?vk_ref=<key> when the app id can be
// recovered from the launch, the generic link otherwise.
func (b Builder) VK(lc *platform.LaunchContext, key string) string {
	id := VKAppID(lc)
	if id == "" {
		return b.Generic(lc, key)
	}
	return "https://vk.com/app" + id + "?vk_ref=" + url.QueryEscape(key)
}

// Telegram returns the bot deep link https://t.me/<bot>?start=<key>.
func (b Builder) Telegram(lc *platform.LaunchContext, key string) string {
	bot := strings.TrimPrefix(strings.TrimSpace(b.TelegramBot), "@")
	if bot == "" {
		return b.Generic(lc, key)
	}
	return "https://t.me/" + url.PathEscape(bot) + "?start=" + url.QueryEscape(key)
}

func (b Builder) ForNetwork(lc *platform.LaunchContext, key string) string {
	switch platform.DetectNetwork(lc) {
	case platform.NetworkVK:
		return b.VK(lc, key)
	case platform.NetworkTelegram:
		return b.Telegram(lc, key)
	}
	return b.Generic(lc, key)
}

// VKAppID recovers the VK app id from a /app<digits> path segment or the
// vk_app_id launch parameter.
func VKAppID(lc *platform.LaunchContext) string {
	if m := vkAppPath.FindStringSubmatch(lc.Path()); m != nil {
		return m[1]
	}
	id := strings.TrimSpace(lc.Query().Get("vk_app_id"))
	for _, r := range id {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return id
}
