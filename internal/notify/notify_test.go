package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type apiErr struct{ msg string }

func (e apiErr) Error() string       { return "api: " + e.msg }
func (e apiErr) UserMessage() string { return e.msg }

func TestFromError(t *testing.T) {
	toast := FromError(fmt.Errorf("check task: %w", apiErr{msg: "Task expired"}), "system.serverError")
	assert.Equal(t, Toast{Level: LevelError, Key: "system.serverError", Message: "Task expired"}, toast)

	toast = FromError(errors.New("dial tcp: refused"), "system.serverError")
	assert.Equal(t, Toast{Level: LevelError, Key: "system.serverError"}, toast)
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	rec.Notify(context.Background(), Success("a", nil))
	rec.Notify(context.Background(), Info("b", map[string]any{"n": 1}))

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, LevelInfo, rec.Toasts()[1].Level)

	var got []Toast
	NotifierFunc(func(_ context.Context, t Toast) { got = append(got, t) }).Notify(context.Background(), Error("c", nil))
	assert.Equal(t, []Toast{{Level: LevelError, Key: "c"}}, got)

	Nop().Notify(context.Background(), Error("ignored", nil))
}
