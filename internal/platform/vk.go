package platform

import (
	"net/url"
	"strings"
)

// VKLaunchParams returns the vk_* and sign parameters of a VK launch, or nil
// when the context was not launched by VK.
func VKLaunchParams(lc *LaunchContext) url.Values {
	if !IsVKMiniApp(lc) {
		return nil
	}
	filtered := url.Values{}
	for key, values := range lc.Query() {
		if strings.HasPrefix(key, "vk_") || key == "sign" {
			filtered[key] = append([]string(nil), values...)
		}
	}
	return filtered
}

// IsVKEmbedded reports whether the app runs inside the VK mobile client
// webview, where dialogs like the invite box exist.
func IsVKEmbedded(lc *LaunchContext) bool {
	p := lc.Query().Get("vk_platform")
	return strings.HasPrefix(p, "mobile_") && p != "mobile_web"
}

func skipHref(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "#")
}

// AppendVKLaunchParams carries VK launch params onto a same-origin link so
// that navigation inside the app keeps the signed launch query. Foreign links
// and links that cannot be parsed are returned untouched.
func AppendVKLaunchParams(href, origin string, params url.Values) string {
	if len(params) == 0 || href == "" || skipHref(href) {
		return href
	}
	base, err := url.Parse(origin)
	if err != nil || base.Host == "" {
		return href
	}
	target, err := base.Parse(href)
	if err != nil {
		return href
	}
	if target.Scheme != base.Scheme || target.Host != base.Host {
		return href
	}

	q := target.Query()
	for key, values := range params {
		if !q.Has(key) && len(values) > 0 {
			q.Set(key, values[0])
		}
	}

	out := target.Path
	if encoded := q.Encode(); encoded != "" {
		out += "?" + encoded
	}
	if target.Fragment != "" {
		out += "#" + target.Fragment
	}
	return out
}
