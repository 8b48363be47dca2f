// Package session bootstraps a device session: it keeps a persistent client
// token and exchanges it once for a backend auth token.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"miniapp-gateway/internal/i18n"
	"miniapp-gateway/internal/notify"
	"miniapp-gateway/internal/platform"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Storage keys.
const (
	KeyClientToken = "sessionToken"
	KeyAuthToken   = "authToken"
)

// ErrClientOnly is returned when bootstrap runs without a browser window.
// Callers treat it as "not yet", never as a user-facing failure.
var ErrClientOnly = errors.New("session: client-only")

type State struct {
	Network     platform.Network `json:"network"`
	ClientToken string           `json:"clientToken,omitempty"`
	AuthToken   string           `json:"authToken,omitempty"`
	UTM         string           `json:"utm,omitempty"`
	Status      Status           `json:"status"`
	Error       string           `json:"error,omitempty"`
}

// Storage is the device's persistent key/value store. Load returns "" and
// no error for a missing key.
type Storage interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Extra struct {
	Timezone  string   `json:"timezone,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

type TokenRequest struct {
	Token   string `json:"token"`
	Network string `json:"network"`
	UTM     string `json:"utm,omitempty"`
	Extra   *Extra `json:"extra,omitempty"`
}

// TokenIssuer exchanges a client token for an auth token.
type TokenIssuer interface {
	IssueToken(ctx context.Context, req TokenRequest) (string, error)
}

type Result struct {
	ClientToken string `json:"clientToken"`
	AuthToken   string `json:"authToken"`
	UTM         string `json:"utm,omitempty"`
	// Issued is true when the backend minted AuthToken during this call.
	Issued bool `json:"-"`
}

type Bootstrapper struct {
	storage  Storage
	issuer   TokenIssuer
	notifier notify.Notifier
	newToken func() string

	group singleflight.Group

	mu    sync.RWMutex
	state State
}

func NewBootstrapper(storage Storage, issuer TokenIssuer, notifier notify.Notifier) *Bootstrapper {
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &Bootstrapper{
		storage:  storage,
		issuer:   issuer,
		notifier: notifier,
		newToken: NewClientToken,
		state:    State{Network: platform.NetworkWeb, Status: StatusIdle},
	}
}

func (b *Bootstrapper) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Bootstrapper) SetNetwork(n platform.Network) {
	b.update(func(s *State) { s.Network = n })
}

func (b *Bootstrapper) SetUTM(utm string) {
	b.update(func(s *State) { s.UTM = NormalizeUTM(utm) })
}

func (b *Bootstrapper) SetAuthToken(token string) {
	b.update(func(s *State) { s.AuthToken = token })
}

// Reset returns the status to idle and clears the last error.
func (b *Bootstrapper) Reset() {
	b.update(func(s *State) {
		s.Status = StatusIdle
		s.Error = ""
	})
}

func (b *Bootstrapper) update(fn func(s *State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.state)
}

// Bootstrap makes sure the device holds an auth token. Concurrent calls share
// a single in-flight bootstrap. utm, when non-empty after normalisation,
// overrides the attribution already in state.
func (b *Bootstrapper) Bootstrap(ctx context.Context, lc *platform.LaunchContext, utm string) (Result, error) {
	if lc == nil || !lc.Window {
		return Result{}, ErrClientOnly
	}

	v, err, _ := b.group.Do("bootstrap", func() (interface{}, error) {
		return b.bootstrap(ctx, lc, utm)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (b *Bootstrapper) bootstrap(ctx context.Context, lc *platform.LaunchContext, explicitUTM string) (Result, error) {
	network := platform.DetectNetwork(lc)

	b.mu.Lock()
	b.state.Network = network
	b.state.Status = StatusLoading
	b.state.Error = ""
	utm := NormalizeUTM(explicitUTM)
	if utm == "" {
		utm = b.state.UTM
	}
	clientToken := b.state.ClientToken
	b.mu.Unlock()

	res, err := b.acquire(ctx, lc, network, clientToken, utm)
	if err != nil {
		b.update(func(s *State) {
			s.Status = StatusFailed
			s.Error = err.Error()
		})
		b.notifier.Notify(ctx, notify.Error(i18n.KeySessionFailed, map[string]any{"error": err.Error()}))
		return Result{}, err
	}

	b.update(func(s *State) {
		s.Status = StatusSucceeded
		s.ClientToken = res.ClientToken
		s.AuthToken = res.AuthToken
		s.UTM = res.UTM
	})
	return res, nil
}

func (b *Bootstrapper) acquire(ctx context.Context, lc *platform.LaunchContext, network platform.Network, clientToken, utm string) (Result, error) {
	storedClient, err := b.storage.Load(ctx, KeyClientToken)
	if err != nil {
		return Result{}, fmt.Errorf("load client token: %w", err)
	}
	storedAuth, err := b.storage.Load(ctx, KeyAuthToken)
	if err != nil {
		return Result{}, fmt.Errorf("load auth token: %w", err)
	}

	if clientToken == "" {
		clientToken = storedClient
	}
	if clientToken == "" {
		clientToken = b.newToken()
	}

	if storedAuth != "" {
		if storedClient == "" {
			if err := b.storage.Save(ctx, KeyClientToken, clientToken); err != nil {
				return Result{}, fmt.Errorf("save client token: %w", err)
			}
		}
		return Result{ClientToken: clientToken, AuthToken: storedAuth, UTM: utm}, nil
	}

	// persisted before the exchange so a retry reuses the same token
	if err := b.storage.Save(ctx, KeyClientToken, clientToken); err != nil {
		return Result{}, fmt.Errorf("save client token: %w", err)
	}

	authToken, err := b.issuer.IssueToken(ctx, TokenRequest{
		Token:   clientToken,
		Network: network.String(),
		UTM:     utm,
		Extra:   &Extra{Timezone: lc.Timezone, Languages: lc.Languages},
	})
	if err != nil {
		return Result{}, err
	}
	if authToken == "" {
		return Result{}, errors.New("backend returned an empty token")
	}

	if err := b.storage.Save(ctx, KeyAuthToken, authToken); err != nil {
		return Result{}, fmt.Errorf("save auth token: %w", err)
	}
	return Result{ClientToken: clientToken, AuthToken: authToken, UTM: utm, Issued: true}, nil
}

// Logout forgets the auth token; the client token survives so the device
// keeps its identity.
func (b *Bootstrapper) Logout(ctx context.Context) error {
	if err := b.storage.Remove(ctx, KeyAuthToken); err != nil {
		return fmt.Errorf("remove auth token: %w", err)
	}
	b.SetAuthToken("")
	b.Reset()
	return nil
}
