package dto

import "miniapp-gateway/internal/social"

type FrensQuery struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

type FrensResponse struct {
	Frens        []social.Fren `json:"frens"`
	Count        int           `json:"count"`
	ReferralKey  string        `json:"referral_key,omitempty"`
	ReferralLink string        `json:"referral_link,omitempty"`
}
