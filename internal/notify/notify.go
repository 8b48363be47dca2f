// Package notify carries user-visible toast notifications from the core flows
// to whatever presents them.
package notify

import (
	"context"
	"errors"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Toast is an untranslated notification. Key names a catalog message; Args
// fill its {name} placeholders. Message, when set, is shown verbatim.
type Toast struct {
	Level   Level          `json:"level"`
	Key     string         `json:"key"`
	Args    map[string]any `json:"args,omitempty"`
	Message string         `json:"message,omitempty"`
}

func Success(key string, args map[string]any) Toast {
	return Toast{Level: LevelSuccess, Key: key, Args: args}
}

func Info(key string, args map[string]any) Toast {
	return Toast{Level: LevelInfo, Key: key, Args: args}
}

func Error(key string, args map[string]any) Toast {
	return Toast{Level: LevelError, Key: key, Args: args}
}

// Notifier presents toasts. Implementations must not block for long; the
// flows call Notify inline.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

type NotifierFunc func(ctx context.Context, t Toast)

func (f NotifierFunc) Notify(ctx context.Context, t Toast) { f(ctx, t) }

type nop struct{}

func (nop) Notify(context.Context, Toast) {}

// Nop discards every toast.
func Nop() Notifier { return nop{} }

// Recorder keeps every toast in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of what was recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Keys lists the recorded toast keys in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.toasts))
	for _, t := range r.toasts {
		keys = append(keys, t.Key)
	}
	return keys
}

// UserMessenger is implemented by errors whose message can be shown to the
// user as is, such as backend API errors.
type UserMessenger interface {
	UserMessage() string
}

// FromError builds an error toast for err, preferring the error's own user
// message over the catalog fallback.
func FromError(err error, fallbackKey string) Toast {
	t := Error(fallbackKey, nil)
	var m UserMessenger
	if errors.As(err, &m) {
		t.Message = m.UserMessage()
	}
	return t
}
