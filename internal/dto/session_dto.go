package dto

import "miniapp-gateway/internal/platform"

type BootstrapRequest struct {
	Launch *platform.LaunchContext `json:"launch" validate:"required"`
	// UTM overrides the campaign found in the launch URL.
	UTM string `json:"utm,omitempty" validate:"max=256"`
}

type SessionResponse struct {
	Network       string `json:"network"`
	Status        string `json:"status"`
	UTM           string `json:"utm,omitempty"`
	Error         string `json:"error,omitempty"`
	Authenticated bool   `json:"authenticated"`
}
