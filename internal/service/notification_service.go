package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"miniapp-gateway/internal/i18n"
	"miniapp-gateway/internal/notify"
	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/internal/websocket"
)

// Pusher delivers a frame to every connection of a device.
type Pusher interface {
	Push(ctx context.Context, deviceID uuid.UUID, msg websocket.Message) error
}

type ToastFrame struct {
	Level notify.Level `json:"level"`
	Key   string       `json:"key"`
	Text  string       `json:"text"`
}

type EventFrame struct {
	Name    string `json:"name"`
	Payload any    `json:"payload,omitempty"`
}

// NotificationService renders toasts in the device locale and pushes them,
// along with live events, over the device socket.
type NotificationService struct {
	pusher Pusher
	logger logger.ILogger
}

func NewNotificationService(pusher Pusher, log logger.ILogger) *NotificationService {
	return &NotificationService{pusher: pusher, logger: log}
}

func (s *NotificationService) Toast(ctx context.Context, deviceID uuid.UUID, locale language.Tag, t notify.Toast) {
	text := t.Message
	if text == "" {
		text = i18n.Translate(locale, t.Key, t.Args)
	}
	s.push(ctx, deviceID, websocket.TypeToast, ToastFrame{Level: t.Level, Key: t.Key, Text: text})
}

func (s *NotificationService) Event(ctx context.Context, deviceID uuid.UUID, name string, payload any) {
	s.push(ctx, deviceID, websocket.TypeEvent, EventFrame{Name: name, Payload: payload})
}

func (s *NotificationService) push(ctx context.Context, deviceID uuid.UUID, frameType string, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to encode frame", map[string]interface{}{"type": frameType, "error": err.Error()})
		return
	}
	if err := s.pusher.Push(ctx, deviceID, websocket.Message{Type: frameType, Data: data}); err != nil {
		s.logger.Warn("NotificationService", "Failed to push frame", map[string]interface{}{"device_id": deviceID, "type": frameType, "error": err.Error()})
	}
}

// ForDevice binds the service to one device. locale is read on every toast
// so that a later launch can change it.
func (s *NotificationService) ForDevice(deviceID uuid.UUID, locale func() language.Tag) notify.Notifier {
	return notify.NotifierFunc(func(ctx context.Context, t notify.Toast) {
		s.Toast(context.WithoutCancel(ctx), deviceID, locale(), t)
	})
}
