package dto

type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Button      string `json:"button,omitempty"`
	Link        string `json:"link,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Reward      int64  `json:"reward"`
	Priority    int    `json:"priority"`
	Status      int    `json:"status"`
	Claimed     bool   `json:"claimed"`
	Pending     bool   `json:"pending"`
	Invite      bool   `json:"invite"`
}

type TaskListResponse struct {
	Tasks   []TaskResponse `json:"tasks"`
	Balance *int64         `json:"balance,omitempty"`
}

type TaskClickResponse struct {
	Old     int    `json:"old"`
	New     int    `json:"new"`
	Reward  int64  `json:"reward"`
	Claimed bool   `json:"claimed"`
	Balance *int64 `json:"balance,omitempty"`
}
