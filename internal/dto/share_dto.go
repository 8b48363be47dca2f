package dto

type ShareRequest struct {
	Title string `json:"title" validate:"max=256"`
	URL   string `json:"url" validate:"required,url"`
	Text  string `json:"text,omitempty" validate:"max=1024"`
}

// ReferralShareRequest shares the user's referral link. An empty Key makes
// the gateway look it up from the frens endpoint.
type ReferralShareRequest struct {
	Key string `json:"key,omitempty" validate:"max=512"`
}

type ShareResponse struct {
	Status string `json:"status"`
	Via    string `json:"via,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type ReferralLinkRequest struct {
	Key string `json:"key" validate:"required,max=512"`
}

type ReferralLinksResponse struct {
	Network  string `json:"network"`
	Link     string `json:"link"`
	Generic  string `json:"generic"`
	VK       string `json:"vk"`
	Telegram string `json:"telegram"`
}
