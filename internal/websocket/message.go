package websocket

import (
	"encoding/json"

	"miniapp-gateway/internal/platform"
)

// Message types on the device socket.
const (
	TypeBridgeCall   = "bridge_call"
	TypeBridgeResult = "bridge_result"
	TypeToast        = "toast"
	TypeEvent        = "event"
)

// Message is the envelope of every frame exchanged with a device. Calls go
// out with ID, Target, Method and Params; the device answers with a result
// carrying the same ID and either Data or Error.
type Message struct {
	Type   string                `json:"type"`
	ID     string                `json:"id,omitempty"`
	Target string                `json:"target,omitempty"`
	Method string                `json:"method,omitempty"`
	Params json.RawMessage       `json:"params,omitempty"`
	OK     bool                  `json:"ok,omitempty"`
	Data   json.RawMessage       `json:"data,omitempty"`
	Error  *platform.BridgeError `json:"error,omitempty"`
}
