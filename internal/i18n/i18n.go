// Package i18n translates toast keys for the device locale.
package i18n

import (
	"fmt"
	"regexp"

	"golang.org/x/text/language"
)

// Default is used when nothing in the device's preferences matches.
var Default = language.English

var (
	supported   = []language.Tag{language.English, language.Russian}
	matcher     = language.NewMatcher(supported)
	placeholder = regexp.MustCompile(`\{(\w+)\}`)
)

// Match negotiates the catalog locale from navigator.languages style
// preferences (or an Accept-Language header value).
func Match(preferences ...string) language.Tag {
	if len(preferences) == 0 {
		return Default
	}
	tags := make([]language.Tag, 0, len(preferences))
	for _, p := range preferences {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return supported[index]
}

// Translate renders key for tag, substituting {name} placeholders from args.
// Unknown keys fall back to the default locale and then to the key itself.
func Translate(tag language.Tag, key string, args map[string]any) string {
	base, _ := tag.Base()
	msg, ok := catalog[base.String()][key]
	if !ok {
		defaultBase, _ := Default.Base()
		msg, ok = catalog[defaultBase.String()][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return placeholder.ReplaceAllStringFunc(msg, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := args[name]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}
