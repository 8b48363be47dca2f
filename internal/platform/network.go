package platform

// Network identifies the host the web app runs inside.
type Network string

const (
	NetworkWeb      Network = "web"
	NetworkTelegram Network = "tg"
	NetworkVK       Network = "vk"
	NetworkMax      Network = "max"
)

func (n Network) String() string {
	return string(n)
}

// DetectNetwork classifies the host of lc. Telegram wins over VK, VK over
// MAX; a missing window always means web.
func DetectNetwork(lc *LaunchContext) Network {
	if lc == nil || !lc.Window {
		return NetworkWeb
	}
	if IsTelegramMiniApp(lc) {
		return NetworkTelegram
	}
	if IsVKMiniApp(lc) {
		return NetworkVK
	}
	if IsMaxMiniApp(lc) {
		return NetworkMax
	}
	return NetworkWeb
}

func IsTelegramMiniApp(lc *LaunchContext) bool {
	return lc != nil && lc.Window && lc.Telegram.Launched()
}

func IsMaxMiniApp(lc *LaunchContext) bool {
	return lc != nil && lc.Window && lc.Max.Launched()
}

// IsVKMiniApp checks only for the presence of vk_user_id and sign; the
// signature itself is verified by the backend.
func IsVKMiniApp(lc *LaunchContext) bool {
	if lc == nil || !lc.Window {
		return false
	}
	q := lc.Query()
	return q.Has("vk_user_id") && q.Has("sign")
}
