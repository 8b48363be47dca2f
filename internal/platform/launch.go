package platform

import (
	"net/url"
	"slices"
	"strings"
)

// WebAppSnapshot mirrors an injected WebApp global (window.Telegram.WebApp or
// window.WebApp) as reported by the webview at launch.
type WebAppSnapshot struct {
	InitData string   `json:"initData"`
	HasUser  bool     `json:"hasUser"`
	Methods  []string `json:"methods,omitempty"`
	Platform string   `json:"platform,omitempty"`
}

// Launched reports whether the host actually launched the mini app.
func (w *WebAppSnapshot) Launched() bool {
	if w == nil {
		return false
	}
	return strings.TrimSpace(w.InitData) != "" || w.HasUser
}

// Supports reports whether the injected object exposes the named method.
func (w *WebAppSnapshot) Supports(method string) bool {
	if w == nil {
		return false
	}
	return slices.Contains(w.Methods, method)
}

// NavigatorCaps lists the browser capabilities checked on the client.
type NavigatorCaps struct {
	Share     bool `json:"share"`
	Clipboard bool `json:"clipboard"`
}

// LaunchContext is the runtime state a webview reports about itself.
type LaunchContext struct {
	Window    bool            `json:"window"`
	Href      string          `json:"href"`
	Telegram  *WebAppSnapshot `json:"telegram,omitempty"`
	Max       *WebAppSnapshot `json:"max,omitempty"`
	VKBridge  bool            `json:"vkBridge"`
	Navigator NavigatorCaps   `json:"navigator"`
	Timezone  string          `json:"timezone,omitempty"`
	Languages []string        `json:"languages,omitempty"`
}

func (lc *LaunchContext) location() *url.URL {
	if lc == nil || lc.Href == "" {
		return nil
	}
	u, err := url.Parse(lc.Href)
	if err != nil {
		return nil
	}
	return u
}

// Query returns the parsed query string of Href.
func (lc *LaunchContext) Query() url.Values {
	u := lc.location()
	if u == nil {
		return url.Values{}
	}
	return u.Query()
}

// HashParams parses the fragment of Href as a query string.
func (lc *LaunchContext) HashParams() url.Values {
	u := lc.location()
	if u == nil {
		return url.Values{}
	}
	fragment := strings.TrimSpace(strings.TrimPrefix(u.Fragment, "#"))
	if fragment == "" {
		return url.Values{}
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return url.Values{}
	}
	return values
}

// Origin returns scheme://host of Href, or "" when unknown.
func (lc *LaunchContext) Origin() string {
	u := lc.location()
	if u == nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Path returns the path component of Href.
func (lc *LaunchContext) Path() string {
	u := lc.location()
	if u == nil {
		return ""
	}
	return u.Path
}
