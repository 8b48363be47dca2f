// Package share dispatches share requests to whatever the host platform
// offers, falling back to the Web Share API and the clipboard.
package share

import (
	"context"
	"errors"
	"fmt"
)

type Status string

const (
	StatusShared    Status = "shared"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

var (
	// ErrUnsupported marks an attempt the host cannot perform; the chain
	// moves on to the next tier.
	ErrUnsupported = errors.New("share method not supported")
	// ErrUnavailable means no tier could share at all.
	ErrUnavailable     = errors.New("sharing is unavailable")
	ErrShareInProgress = errors.New("share already in progress")
)

// Result is the outcome of one attempt or of a whole chain.
type Result struct {
	Status Status `json:"status"`
	// Via names the attempt that produced a Shared or Cancelled outcome.
	Via    string `json:"via,omitempty"`
	Reason error  `json:"-"`
}

func Shared() Result             { return Result{Status: StatusShared} }
func Cancelled() Result          { return Result{Status: StatusCancelled} }
func Failed(reason error) Result { return Result{Status: StatusFailed, Reason: reason} }

// Final reports whether the chain must stop at r.
func (r Result) Final() bool {
	return r.Status == StatusShared || r.Status == StatusCancelled
}

func (r Result) String() string {
	if r.Status == StatusFailed && r.Reason != nil {
		return fmt.Sprintf("failed: %v", r.Reason)
	}
	if r.Via != "" {
		return string(r.Status) + " via " + r.Via
	}
	return string(r.Status)
}

// Attempt is one tier of a fallback chain.
type Attempt struct {
	Name string
	Run  func(ctx context.Context) Result
}

func (a Attempt) run(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Errorf("%s: panic: %v", a.Name, r))
		}
	}()
	if a.Run == nil {
		return Failed(ErrUnsupported)
	}
	return a.Run(ctx)
}

// Chain runs attempts in order and stops at the first Shared or Cancelled.
// When every attempt fails the last failure is returned.
func Chain(ctx context.Context, attempts ...Attempt) Result {
	last := Failed(ErrUnavailable)
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return Failed(err)
		}
		res := a.run(ctx)
		if res.Final() {
			if res.Via == "" {
				res.Via = a.Name
			}
			return res
		}
		if res.Status != StatusFailed {
			res = Failed(fmt.Errorf("%s: unexpected status %q", a.Name, res.Status))
		}
		if res.Reason == nil {
			res.Reason = ErrUnavailable
		}
		last = res
	}
	return last
}
