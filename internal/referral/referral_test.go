package referral

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"miniapp-gateway/internal/platform"
)

func launch(href string) *platform.LaunchContext {
	return &platform.LaunchContext{Window: true, Href: href}
}

func TestBuilderVK(t *testing.T) {
	b := Builder{Origin: "https://app.example.com", Locale: "ru"}

	tests := []struct {
		name string
		lc   *platform.LaunchContext
		want string
	}{
		{name: "no app id", lc: launch("https://app.example.com/ru"), want: "https://app.example.com/ru?utm=abc123"},
		{name: "app id in path", lc: launch("https://vk.com/app42"), want: "https://vk.com/app42?vk_ref=abc123"},
		{name: "app id in query", lc: launch("https://app.example.com/?vk_app_id=42&vk_user_id=1&sign=s"), want: "https://vk.com/app42?vk_ref=abc123"},
		{name: "non numeric app id", lc: launch("https://app.example.com/?vk_app_id=4x2"), want: "https://app.example.com/ru?utm=abc123"},
		{name: "nil context", lc: nil, want: "https://app.example.com/ru?utm=abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.VK(tt.lc, "abc123")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderTelegram(t *testing.T) {
	lc := launch("https://app.example.com/en")

	assert.Equal(t, "https://t.me/shop_bot?start=abc123", Builder{TelegramBot: "@shop_bot"}.Telegram(lc, "abc123"))
	assert.Equal(t, "https://app.example.com/?utm=abc123", Builder{}.Telegram(lc, "abc123"))
}

func TestBuilderGeneric(t *testing.T) {
	assert.Equal(t, "https://app.example.com/en?utm=a+b%26c", Builder{Locale: "en"}.Generic(launch("https://app.example.com/x?y=1"), "a b&c"))
	assert.Equal(t, "https://fallback.example/?utm=k", Builder{Origin: "https://fallback.example/"}.Generic(nil, "k"))
}

func TestBuilderForNetwork(t *testing.T) {
	b := Builder{Origin: "https://app.example.com", TelegramBot: "shop_bot"}

	assert.Equal(t, "https://t.me/shop_bot?start=k",
		b.ForNetwork(&platform.LaunchContext{Window: true, Telegram: &platform.WebAppSnapshot{InitData: "x"}}, "k"))
	assert.Equal(t, "https://vk.com/app7?vk_ref=k",
		b.ForNetwork(launch("https://app.example.com/?vk_app_id=7&vk_user_id=1&sign=s"), "k"))
	assert.Equal(t, "https://app.example.com/?utm=k",
		b.ForNetwork(launch("https://app.example.com/"), "k"))
}
