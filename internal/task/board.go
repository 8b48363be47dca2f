package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"miniapp-gateway/internal/i18n"
	"miniapp-gateway/internal/notify"
	"miniapp-gateway/internal/share"
)

// CheckDelay is how long verification waits after a delayed link opens.
const CheckDelay = 4000 * time.Millisecond

const listLimit = 100

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskClaimed     = errors.New("task already claimed")
	ErrCheckPending    = errors.New("task check already pending")
	ErrLoadInProgress  = errors.New("task list is already loading")
	ErrInviteCancelled = errors.New("invite cancelled")
	ErrInviteFailed    = errors.New("invite not shared")
)

type Backend interface {
	GetTasks(ctx context.Context, req ListRequest) (ListResponse, error)
	CheckTask(ctx context.Context, id int64) (CheckResult, error)
}

// Opener opens a task link on the device.
type Opener interface {
	Open(ctx context.Context, link string) error
}

// Inviter runs the referral share for invite tasks.
type Inviter interface {
	Invite(ctx context.Context) (share.Result, error)
}

// ClaimHook is called after a check moves a task to the claimed status.
type ClaimHook func(ctx context.Context, t Task, res CheckResult)

type Option func(*Board)

func WithInviter(inv Inviter) Option { return func(b *Board) { b.inviter = inv } }

func WithDelay(d time.Duration) Option { return func(b *Board) { b.delay = d } }

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(b *Board) { b.sleep = sleep }
}

func WithClaimHook(hook ClaimHook) Option { return func(b *Board) { b.onClaimed = hook } }

// Board is one device's task list. Checks run at most once per task at a
// time; different tasks proceed independently.
type Board struct {
	backend   Backend
	opener    Opener
	inviter   Inviter
	notifier  notify.Notifier
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	onClaimed ClaimHook

	mu      sync.Mutex
	tasks   []Task
	balance *int64
	pending map[int64]struct{}
	loading bool
}

func NewBoard(backend Backend, opener Opener, notifier notify.Notifier, opts ...Option) *Board {
	if notifier == nil {
		notifier = notify.Nop()
	}
	b := &Board{
		backend:  backend,
		opener:   opener,
		notifier: notifier,
		delay:    CheckDelay,
		sleep:    sleepContext,
		pending:  make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Load replaces the list with the backend's. A load already in flight makes
// this call a no-op returning ErrLoadInProgress.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	if b.loading {
		b.mu.Unlock()
		return ErrLoadInProgress
	}
	b.loading = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
	}()

	resp, err := b.backend.GetTasks(ctx, ListRequest{Limit: listLimit})
	if err != nil {
		b.notifier.Notify(ctx, notify.FromError(err, i18n.KeyServerError))
		return fmt.Errorf("get tasks: %w", err)
	}

	b.mu.Lock()
	b.tasks = append([]Task(nil), resp.Tasks...)
	b.balance = resp.Balance
	b.mu.Unlock()
	return nil
}

// Tasks returns the list in display order.
func (b *Board) Tasks() []Task {
	b.mu.Lock()
	tasks := append([]Task(nil), b.tasks...)
	b.mu.Unlock()
	Sort(tasks)
	return tasks
}

func (b *Board) Balance() *int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balance == nil {
		return nil
	}
	v := *b.balance
	return &v
}

func (b *Board) Pending(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pending[id]
	return ok
}

// Click runs the completion flow for task id: open the link (or run the
// invite share), wait if the link needs it, check with the backend and apply
// the new status.
func (b *Board) Click(ctx context.Context, id int64) (CheckResult, error) {
	b.mu.Lock()
	t, ok := b.find(id)
	switch {
	case !ok:
		b.mu.Unlock()
		return CheckResult{}, ErrTaskNotFound
	case t.Claimed():
		b.mu.Unlock()
		return CheckResult{}, ErrTaskClaimed
	}
	if _, busy := b.pending[id]; busy {
		b.mu.Unlock()
		return CheckResult{}, ErrCheckPending
	}
	b.pending[id] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	res, err := b.complete(ctx, t)
	if err != nil {
		if !errors.Is(err, ErrInviteCancelled) && !errors.Is(err, ErrInviteFailed) {
			b.notifier.Notify(ctx, notify.FromError(err, i18n.KeyServerError))
		}
		return CheckResult{}, err
	}
	return res, nil
}

func (b *Board) complete(ctx context.Context, t Task) (CheckResult, error) {
	if t.IsInvite() {
		if err := b.invite(ctx); err != nil {
			return CheckResult{}, err
		}
	} else if t.Link != "" {
		if b.opener == nil {
			return CheckResult{}, errors.New("no link opener")
		}
		if err := b.opener.Open(ctx, t.Link); err != nil {
			return CheckResult{}, fmt.Errorf("open task link: %w", err)
		}
		if ShouldDelay(t.Link) && b.delay > 0 {
			if err := b.sleep(ctx, b.delay); err != nil {
				return CheckResult{}, err
			}
		}
	}

	res, err := b.backend.CheckTask(ctx, t.ID)
	if err != nil {
		return CheckResult{}, fmt.Errorf("check task %d: %w", t.ID, err)
	}

	b.apply(t.ID, res)

	switch {
	case res.New == StatusClaimed && res.Reward > 0:
		b.notifier.Notify(ctx, notify.Success(i18n.KeyTaskClaimSuccess, map[string]any{"reward": res.Reward}))
	case res.New != StatusClaimed:
		b.notifier.Notify(ctx, notify.Info(i18n.KeyTaskClaimNotReady, nil))
	}

	if res.New == StatusClaimed && res.Old != StatusClaimed && b.onClaimed != nil {
		t.Status = res.New
		b.onClaimed(ctx, t, res)
	}
	return res, nil
}

// invite maps the share outcome: a cancelled share ends the flow silently and
// a failed one was already reported by the dispatcher.
func (b *Board) invite(ctx context.Context) error {
	if b.inviter == nil {
		return errors.New("no inviter for invite task")
	}
	res, err := b.inviter.Invite(ctx)
	if err != nil {
		if errors.Is(err, share.ErrShareInProgress) {
			return ErrInviteCancelled
		}
		return err
	}
	switch res.Status {
	case share.StatusShared:
		return nil
	case share.StatusCancelled:
		return ErrInviteCancelled
	}
	return ErrInviteFailed
}

func (b *Board) apply(id int64, res CheckResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Status = res.New
		}
	}
	if res.Balance != nil {
		v := *res.Balance
		b.balance = &v
	}
}

func (b *Board) find(id int64) (Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
