// Package authcookie mirrors the device's auth token into the authToken
// cookie so server-side middleware can see whether the user is signed in.
package authcookie

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "authToken"

// CookieWriter receives the cookie to set or clear.
type CookieWriter interface {
	SetCookie(c *http.Cookie)
}

type CookieWriterFunc func(c *http.Cookie)

func (f CookieWriterFunc) SetCookie(c *http.Cookie) { f(c) }

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims decodes the payload segment of token without checking the
// signature. ok is false for anything that is not a JSON object.
func Claims(token string) (claims map[string]any, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, false
	}
	seg := strings.NewReplacer("+", "-", "/", "_").Replace(strings.TrimRight(parts[1], "="))
	raw, err := segmentParser.DecodeSegment(seg)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal(raw, &claims); err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}

// IsAuthenticated applies the sign-in rule to decoded claims: a numeric user
// must be positive, otherwise a numeric status must be at least 3.
func IsAuthenticated(claims map[string]any) bool {
	if user, ok := claims["user"].(float64); ok {
		return user > 0
	}
	if status, ok := claims["status"].(float64); ok {
		return status >= 3
	}
	return false
}

// Authenticated reports whether token carries a signed-in payload.
func Authenticated(token string) bool {
	claims, ok := Claims(token)
	return ok && IsAuthenticated(claims)
}

// Sync sets the cookie for an authenticated token and clears it otherwise.
// It never panics; a token that cannot be decoded clears the cookie.
func Sync(w CookieWriter, token string, secure bool) {
	authenticated := false
	func() {
		defer func() { _ = recover() }()
		authenticated = token != "" && Authenticated(token)
	}()

	if !authenticated {
		w.SetCookie(Clear(secure))
		return
	}
	w.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(token),
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear returns the expiring form of the cookie.
func Clear(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromCookie undoes the URL encoding applied by Sync.
func TokenFromCookie(value string) string {
	token, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return token
}
