package share

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attempt(name string, res Result, ran *[]string) Attempt {
	return Attempt{Name: name, Run: func(context.Context) Result {
		*ran = append(*ran, name)
		return res
	}}
}

func TestChain(t *testing.T) {
	boom := errors.New("boom")

	t.Run("stops at shared", func(t *testing.T) {
		var ran []string
		res := Chain(context.Background(),
			attempt("a", Failed(ErrUnsupported), &ran),
			attempt("b", Shared(), &ran),
			attempt("c", Shared(), &ran),
		)
		assert.Equal(t, StatusShared, res.Status)
		assert.Equal(t, "b", res.Via)
		assert.Equal(t, []string{"a", "b"}, ran)
	})

	t.Run("stops at cancelled", func(t *testing.T) {
		var ran []string
		res := Chain(context.Background(),
			attempt("a", Cancelled(), &ran),
			attempt("b", Shared(), &ran),
		)
		assert.Equal(t, StatusCancelled, res.Status)
		assert.Equal(t, []string{"a"}, ran)
	})

	t.Run("returns last failure", func(t *testing.T) {
		var ran []string
		res := Chain(context.Background(),
			attempt("a", Failed(boom), &ran),
			attempt("b", Failed(ErrUnavailable), &ran),
		)
		assert.Equal(t, StatusFailed, res.Status)
		assert.ErrorIs(t, res.Reason, ErrUnavailable)
	})

	t.Run("empty chain is unavailable", func(t *testing.T) {
		res := Chain(context.Background())
		assert.Equal(t, StatusFailed, res.Status)
		assert.ErrorIs(t, res.Reason, ErrUnavailable)
	})

	t.Run("panic becomes failure and chain continues", func(t *testing.T) {
		var ran []string
		res := Chain(context.Background(),
			Attempt{Name: "bad", Run: func(context.Context) Result { panic("sdk exploded") }},
			attempt("b", Shared(), &ran),
		)
		assert.Equal(t, StatusShared, res.Status)
		assert.Equal(t, []string{"b"}, ran)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var ran []string
		res := Chain(ctx, attempt("a", Shared(), &ran))
		require.Equal(t, StatusFailed, res.Status)
		assert.ErrorIs(t, res.Reason, context.Canceled)
		assert.Empty(t, ran)
	})
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "shared via browser.clipboard", Result{Status: StatusShared, Via: ViaClipboard}.String())
	assert.Equal(t, "failed: boom", Failed(errors.New("boom")).String())
	assert.Equal(t, "cancelled", Cancelled().String())
}
