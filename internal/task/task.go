// Package task holds the reward task list of a device and drives the
// completion flow of a single task.
package task

import (
	"cmp"
	"slices"
	"strings"

	"miniapp-gateway/internal/platform"
)

// StatusClaimed is the terminal task status.
const StatusClaimed = 3

// LinkInvite marks tasks completed by inviting a friend.
const LinkInvite = "invite"

type LocalizedText map[string]string

// Resolve picks the locale's text, then English, then any non-empty value.
func (t LocalizedText) Resolve(locale string) string {
	if v := t[locale]; v != "" {
		return v
	}
	if v := t["en"]; v != "" {
		return v
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if strings.TrimSpace(t[k]) != "" {
			return t[k]
		}
	}
	return ""
}

type Task struct {
	ID       int64          `json:"id"`
	Title    LocalizedText  `json:"title,omitempty"`
	Data     LocalizedText  `json:"data,omitempty"`
	Button   LocalizedText  `json:"button,omitempty"`
	Link     string         `json:"link,omitempty"`
	Icon     string         `json:"icon,omitempty"`
	Reward   int64          `json:"reward,omitempty"`
	Verify   string         `json:"verify,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
	Priority int            `json:"priority,omitempty"`
	Color    string         `json:"color,omitempty"`
	Status   int            `json:"status"`
	Network  string         `json:"network,omitempty"`
}

func (t Task) Claimed() bool {
	return t.Status == StatusClaimed
}

// IsInvite reports whether the task is completed through a referral share
// rather than by visiting a link.
func (t Task) IsInvite() bool {
	return t.Verify == LinkInvite || t.Link == LinkInvite
}

// Sort orders tasks in place: unclaimed before claimed, then higher priority
// first. Equal tasks keep their relative order.
func Sort(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if ac, bc := a.Claimed(), b.Claimed(); ac != bc {
			if ac {
				return 1
			}
			return -1
		}
		return cmp.Compare(b.Priority, a.Priority)
	})
}

// ShouldDelay reports whether verification must wait for the host to
// register the action: story posts and Telegram links.
func ShouldDelay(link string) bool {
	if link == "" {
		return false
	}
	return link == platform.LinkStory || strings.Contains(link, "t.me")
}

type ListRequest struct {
	Limit  int    `json:"limit"`
	ID     *int64 `json:"id"`
	Offset *int   `json:"offset"`
}

type ListResponse struct {
	Tasks   []Task `json:"tasks"`
	Balance *int64 `json:"balance,omitempty"`
}

type CheckResult struct {
	Old     int    `json:"old"`
	New     int    `json:"new"`
	Reward  int64  `json:"reward"`
	Balance *int64 `json:"balance,omitempty"`
}
