package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"miniapp-gateway/internal/backend"
	"miniapp-gateway/internal/bridge"
	"miniapp-gateway/internal/i18n"
	"miniapp-gateway/internal/notify"
	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/internal/platform"
	"miniapp-gateway/internal/referral"
	"miniapp-gateway/internal/repository/contract"
	"miniapp-gateway/internal/session"
	"miniapp-gateway/internal/share"
	"miniapp-gateway/internal/social"
	"miniapp-gateway/internal/task"
	"miniapp-gateway/pkg/events"
)

var (
	ErrNoLaunchContext = errors.New("device has not reported a launch context")
	ErrNoReferralKey   = errors.New("user has no referral key")
)

// BackendAPI is everything a device needs from the backend.
type BackendAPI interface {
	session.TokenIssuer
	task.Backend
	share.MessagePreparer
	GetFrens(ctx context.Context, req social.FrensRequest) (social.FrensResponse, error)
}

// BackendFactory returns a backend client authorized by tokens.
type BackendFactory func(tokens backend.TokenSource) BackendAPI

// DeviceHub is the part of the websocket hub devices are driven through.
type DeviceHub interface {
	bridge.Caller
	Pusher
}

type RuntimeDeps struct {
	Hub           DeviceHub
	Backend       BackendFactory
	Storage       contract.DeviceStorageRepository
	Notifications *NotificationService
	Publisher     IPublisherService
	Referral      referral.Builder
	// ShareOptions carries the prepared message look; the preparer is set
	// per device.
	ShareOptions  share.Options
	CheckDelay    time.Duration
	DefaultLocale language.Tag
	Logger        logger.ILogger
}

// DeviceRuntime is the live state of one device: its session, share
// dispatcher and task board, plus the launch context they act on.
type DeviceRuntime struct {
	ID      uuid.UUID
	Session *session.Bootstrapper
	Board   *task.Board

	deps     *RuntimeDeps
	storage  *DeviceStorage
	api      BackendAPI
	notifier notify.Notifier

	mu          sync.RWMutex
	launch      *platform.LaunchContext
	locale      language.Tag
	navigator   *platform.Navigator
	dispatcher  *share.Dispatcher
	referralKey string
	tasksLoaded bool
}

type openerFunc func(ctx context.Context, link string) error

func (f openerFunc) Open(ctx context.Context, link string) error { return f(ctx, link) }

type inviterFunc func(ctx context.Context) (share.Result, error)

func (f inviterFunc) Invite(ctx context.Context) (share.Result, error) { return f(ctx) }

func newDeviceRuntime(id uuid.UUID, deps *RuntimeDeps) *DeviceRuntime {
	rt := &DeviceRuntime{
		ID:      id,
		deps:    deps,
		storage: NewDeviceStorage(deps.Storage, id),
		locale:  deps.DefaultLocale,
	}
	rt.notifier = deps.Notifications.ForDevice(id, rt.Locale)
	rt.api = deps.Backend(rt.authToken)
	rt.Session = session.NewBootstrapper(rt.storage, rt.api, rt.notifier)

	delay := deps.CheckDelay
	if delay == 0 {
		delay = task.CheckDelay
	}
	rt.Board = task.NewBoard(rt.api, openerFunc(rt.open), rt.notifier,
		task.WithInviter(inviterFunc(rt.InviteReferral)),
		task.WithDelay(delay),
		task.WithClaimHook(rt.onClaimed),
	)
	rt.dispatcher = share.NewDispatcher(nil, nil, rt.notifier)
	return rt
}

func (rt *DeviceRuntime) authToken(ctx context.Context) (string, error) {
	return rt.storage.Load(ctx, session.KeyAuthToken)
}

// Attach points the runtime at a freshly reported launch context: the SDK
// surfaces, locale, navigator and share bridge are rebuilt from it.
func (rt *DeviceRuntime) Attach(lc *platform.LaunchContext) {
	surfaces := bridge.Surfaces(rt.deps.Hub, rt.ID, lc)
	opts := rt.deps.ShareOptions
	opts.Preparer = rt.api

	locale := rt.deps.DefaultLocale
	if lc != nil && len(lc.Languages) > 0 {
		locale = i18n.Match(lc.Languages...)
	}

	// the dispatcher is rebound, not replaced, so a share still in flight
	// keeps blocking new ones
	rt.dispatcher.Rebind(surfaces.Browser, share.BridgeFor(lc, surfaces, opts))

	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.launch = lc
	rt.locale = locale
	rt.navigator = platform.NewNavigator(surfaces, lc)
}

func (rt *DeviceRuntime) Launch() *platform.LaunchContext {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.launch
}

func (rt *DeviceRuntime) Locale() language.Tag {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.locale
}

// LocaleCode is the two-letter catalog locale, as used in site paths.
func (rt *DeviceRuntime) LocaleCode() string {
	base, _ := rt.Locale().Base()
	return base.String()
}

func (rt *DeviceRuntime) Dispatcher() *share.Dispatcher {
	return rt.dispatcher
}

func (rt *DeviceRuntime) Notifier() notify.Notifier {
	return rt.notifier
}

func (rt *DeviceRuntime) open(ctx context.Context, link string) error {
	rt.mu.RLock()
	nav := rt.navigator
	rt.mu.RUnlock()
	if nav == nil {
		return platform.ErrNoOpener
	}
	return nav.Open(ctx, link)
}

// Referral returns the link builder for this device's locale.
func (rt *DeviceRuntime) Referral() referral.Builder {
	b := rt.deps.Referral
	b.Locale = rt.LocaleCode()
	return b
}

// Frens fetches the friends list in display order and remembers the
// referral key it carries.
func (rt *DeviceRuntime) Frens(ctx context.Context, req social.FrensRequest) (social.FrensResponse, error) {
	resp, err := rt.api.GetFrens(ctx, req)
	if err != nil {
		return social.FrensResponse{}, err
	}
	social.Sort(resp.Frens)
	if key := resp.ReferralKey(); key != "" {
		rt.mu.Lock()
		rt.referralKey = key
		rt.mu.Unlock()
	}
	return resp, nil
}

// ReferralKey returns the remembered key or asks the backend for it. "" with
// a nil error means the user has none.
func (rt *DeviceRuntime) ReferralKey(ctx context.Context) (string, error) {
	rt.mu.RLock()
	key := rt.referralKey
	rt.mu.RUnlock()
	if key != "" {
		return key, nil
	}
	resp, err := rt.Frens(ctx, social.FrensRequest{Limit: 1})
	if err != nil {
		return "", err
	}
	return resp.ReferralKey(), nil
}

// ShareReferral shares the referral link for key through the host's own
// share tiers first.
func (rt *DeviceRuntime) ShareReferral(ctx context.Context, key string) (share.Result, error) {
	if rt.Launch() == nil {
		return share.Result{}, ErrNoLaunchContext
	}
	locale := rt.Locale()
	req := share.Request{
		Title: i18n.Translate(locale, i18n.KeySocialShareTitle, nil),
		URL:   rt.Referral().ForNetwork(rt.Launch(), key),
		Text:  i18n.Translate(locale, i18n.KeySocialShareText, nil),
	}
	d := rt.Dispatcher()
	res, err := d.ShareReferral(ctx, req)
	if err != nil {
		return res, err
	}
	rt.publishShare(ctx, "referral", d.Network(), res)
	return res, nil
}

// InviteReferral looks up the referral key and shares it. A user without a
// key gets a toast and a failed result.
func (rt *DeviceRuntime) InviteReferral(ctx context.Context) (share.Result, error) {
	key, err := rt.ReferralKey(ctx)
	if err != nil {
		return share.Result{}, fmt.Errorf("referral key: %w", err)
	}
	if key == "" {
		rt.notifier.Notify(ctx, notify.Error(i18n.KeySocialReferralMissing, nil))
		return share.Failed(ErrNoReferralKey), nil
	}
	return rt.ShareReferral(ctx, key)
}

// Share runs the generic share chain.
func (rt *DeviceRuntime) Share(ctx context.Context, req share.Request) (share.Result, error) {
	if rt.Launch() == nil {
		return share.Result{}, ErrNoLaunchContext
	}
	d := rt.Dispatcher()
	res, err := d.Share(ctx, req)
	if err != nil {
		return res, err
	}
	rt.publishShare(ctx, "generic", d.Network(), res)
	return res, nil
}

// Tasks loads the board on first use.
func (rt *DeviceRuntime) Tasks(ctx context.Context) ([]task.Task, *int64, error) {
	rt.mu.RLock()
	loaded := rt.tasksLoaded
	rt.mu.RUnlock()
	if !loaded {
		if err := rt.RefreshTasks(ctx); err != nil && !errors.Is(err, task.ErrLoadInProgress) {
			return nil, nil, err
		}
	}
	return rt.Board.Tasks(), rt.Board.Balance(), nil
}

func (rt *DeviceRuntime) RefreshTasks(ctx context.Context) error {
	if err := rt.Board.Load(ctx); err != nil {
		return err
	}
	rt.mu.Lock()
	rt.tasksLoaded = true
	rt.mu.Unlock()
	return nil
}

func (rt *DeviceRuntime) onClaimed(ctx context.Context, t task.Task, res task.CheckResult) {
	data := map[string]interface{}{
		"device_id": rt.ID.String(),
		"task_id":   t.ID,
		"reward":    res.Reward,
	}
	if res.Balance != nil {
		data["balance"] = *res.Balance
	}
	rt.publish(ctx, events.New(events.TypeTaskClaimed, data))
}

func (rt *DeviceRuntime) publishShare(ctx context.Context, kind string, network platform.Network, res share.Result) {
	if res.Status != share.StatusShared {
		return
	}
	rt.publish(ctx, events.New(events.TypeShareCompleted, map[string]interface{}{
		"device_id": rt.ID.String(),
		"kind":      kind,
		"network":   string(network),
		"via":       res.Via,
	}))
}

func (rt *DeviceRuntime) publish(ctx context.Context, event events.Event) {
	if rt.deps.Publisher == nil {
		return
	}
	if err := rt.deps.Publisher.Publish(ctx, event); err != nil {
		rt.deps.Logger.Warn("DeviceRuntime", "Failed to publish event", map[string]interface{}{
			"device_id": rt.ID,
			"type":      event.EventType(),
			"error":     err.Error(),
		})
	}
}
