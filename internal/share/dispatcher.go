package share

import (
	"context"
	"errors"
	"sync"

	"miniapp-gateway/internal/i18n"
	"miniapp-gateway/internal/notify"
	"miniapp-gateway/internal/platform"
)

// Dispatcher runs at most one share at a time for a device and reports the
// outcome as a toast.
type Dispatcher struct {
	browser  platform.Browser
	bridge   Bridge
	notifier notify.Notifier

	mu      sync.Mutex
	sharing bool
}

func NewDispatcher(browser platform.Browser, bridge Bridge, notifier notify.Notifier) *Dispatcher {
	if bridge == nil {
		bridge = NoneBridge{}
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &Dispatcher{browser: browser, bridge: bridge, notifier: notifier}
}

// Rebind points the dispatcher at the surfaces of a new launch. A share
// already running keeps the surfaces it started with and still blocks new
// ones until it ends.
func (d *Dispatcher) Rebind(browser platform.Browser, bridge Bridge) {
	if bridge == nil {
		bridge = NoneBridge{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.browser = browser
	d.bridge = bridge
}

func (d *Dispatcher) surfaces() (platform.Browser, Bridge) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.browser, d.bridge
}

// Available reports whether the generic chain has anything to work with.
func (d *Dispatcher) Available() bool {
	browser, _ := d.surfaces()
	return browser != nil && (browser.CanShare() || browser.CanWriteClipboard())
}

func (d *Dispatcher) Sharing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sharing
}

func (d *Dispatcher) Network() platform.Network {
	_, bridge := d.surfaces()
	return bridge.Network()
}

// Share runs the generic chain: native share, then clipboard.
func (d *Dispatcher) Share(ctx context.Context, req Request) (Result, error) {
	return d.run(ctx, func(browser platform.Browser, _ Bridge) []Attempt {
		return GenericAttempts(browser, req)
	})
}

// ShareReferral tries the host's own share tiers before the generic chain.
func (d *Dispatcher) ShareReferral(ctx context.Context, req Request) (Result, error) {
	return d.run(ctx, func(browser platform.Browser, bridge Bridge) []Attempt {
		return append(bridge.Attempts(req), GenericAttempts(browser, req)...)
	})
}

func (d *Dispatcher) run(ctx context.Context, build func(platform.Browser, Bridge) []Attempt) (Result, error) {
	d.mu.Lock()
	if d.sharing {
		d.mu.Unlock()
		return Result{}, ErrShareInProgress
	}
	d.sharing = true
	browser, bridge := d.browser, d.bridge
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.sharing = false
		d.mu.Unlock()
	}()

	res := Chain(ctx, build(browser, bridge)...)
	d.report(ctx, res)
	return res, nil
}

func (d *Dispatcher) report(ctx context.Context, res Result) {
	switch res.Status {
	case StatusShared:
		key := i18n.KeyShareShared
		if res.Via == ViaClipboard {
			key = i18n.KeyShareCopied
		}
		d.notifier.Notify(ctx, notify.Success(key, nil))
	case StatusFailed:
		if errors.Is(res.Reason, ErrUnavailable) || errors.Is(res.Reason, ErrUnsupported) {
			d.notifier.Notify(ctx, notify.Error(i18n.KeyShareUnavailable, nil))
			return
		}
		d.notifier.Notify(ctx, notify.Error(i18n.KeySystemError, nil))
	}
}
