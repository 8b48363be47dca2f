// Package social holds the referral friends list.
package social

import (
	"slices"
	"strconv"
)

type Relation string

const (
	RelationReferral Relation = "referral"
	RelationReferrer Relation = "referrer"
	RelationFriend   Relation = "friend"
)

type Fren struct {
	ID       int64    `json:"id"`
	Login    string   `json:"login,omitempty"`
	Name     string   `json:"name,omitempty"`
	Surname  string   `json:"surname,omitempty"`
	Title    string   `json:"title,omitempty"`
	Image    string   `json:"image,omitempty"`
	Balance  *int64   `json:"balance,omitempty"`
	Relation Relation `json:"relation"`
}

func (f Fren) balance() int64 {
	if f.Balance == nil {
		return 0
	}
	return *f.Balance
}

type FrensRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type FrensResponse struct {
	Frens        []Fren `json:"frens"`
	Count        int    `json:"count"`
	ReferralLink string `json:"referral_link,omitempty"`
	ReferralCode *int64 `json:"referral_code,omitempty"`
}

// ReferralKey is the referral link key, or the legacy numeric code when the
// backend has not issued a link yet. "" means the user has neither.
func (r FrensResponse) ReferralKey() string {
	if r.ReferralLink != "" {
		return r.ReferralLink
	}
	if r.ReferralCode != nil {
		return strconv.FormatInt(*r.ReferralCode, 10)
	}
	return ""
}

// Sort orders frens by balance, richest first, then by id.
func Sort(frens []Fren) {
	slices.SortStableFunc(frens, func(a, b Fren) int {
		if ab, bb := a.balance(), b.balance(); ab != bb {
			if ab > bb {
				return -1
			}
			return 1
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
