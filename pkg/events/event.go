package events

import (
	"encoding/json"
	"time"
)

// Event types published by the gateway.
const (
	TypeSessionCreated = "SESSION_CREATED"
	TypeTaskClaimed    = "TASK_CLAIMED"
	TypeShareCompleted = "SHARE_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TASK_CLAIMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Encode serialises an event together with its type and timestamp.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

func Decode(data []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, err
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
