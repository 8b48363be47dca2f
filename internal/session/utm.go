package session

import (
	"strings"

	"miniapp-gateway/internal/platform"
)

// NormalizeUTM trims v and maps the placeholder values the clients send for
// "no attribution" to "".
func NormalizeUTM(v string) string {
	trimmed := strings.TrimSpace(v)
	switch strings.ToLower(trimmed) {
	case "", "other", "null", "undefined":
		return ""
	}
	return trimmed
}

// UTMFromLaunch looks for attribution in the launch URL: the utm query
// parameter, then utm in the hash, then VK's vk_ref, then Telegram's
// tgWebAppStartParam.
func UTMFromLaunch(lc *platform.LaunchContext) string {
	query := lc.Query()
	hash := lc.HashParams()
	candidates := []string{
		query.Get("utm"),
		hash.Get("utm"),
		query.Get("vk_ref"),
		query.Get("tgWebAppStartParam"),
		hash.Get("tgWebAppStartParam"),
	}
	for _, c := range candidates {
		if utm := NormalizeUTM(c); utm != "" {
			return utm
		}
	}
	return ""
}
