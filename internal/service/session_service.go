package service

import (
	"context"

	"github.com/google/uuid"

	"miniapp-gateway/internal/authcookie"
	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/platform"
	"miniapp-gateway/internal/session"
	"miniapp-gateway/pkg/events"
)

type ISessionService interface {
	// Bootstrap attaches the launch context and makes sure the device holds
	// an auth token. The returned token is what the auth cookie must mirror.
	Bootstrap(ctx context.Context, deviceID uuid.UUID, req *dto.BootstrapRequest) (*dto.SessionResponse, string, error)
	Current(ctx context.Context, deviceID uuid.UUID) (*dto.SessionResponse, error)
	Logout(ctx context.Context, deviceID uuid.UUID) (*dto.SessionResponse, error)
}

type sessionService struct {
	registry *DeviceRegistry
}

func NewSessionService(registry *DeviceRegistry) ISessionService {
	return &sessionService{registry: registry}
}

func (s *sessionService) Bootstrap(ctx context.Context, deviceID uuid.UUID, req *dto.BootstrapRequest) (*dto.SessionResponse, string, error) {
	rt := s.registry.Get(deviceID)
	rt.Attach(req.Launch)
	rt.Session.SetNetwork(platform.DetectNetwork(req.Launch))

	utm := req.UTM
	if utm == "" {
		utm = session.UTMFromLaunch(req.Launch)
	}

	res, err := rt.Session.Bootstrap(ctx, req.Launch, utm)
	if err != nil {
		return toSessionResponse(rt.Session.State(), ""), "", err
	}

	// a returning device reuses its stored token and is not a new session
	if res.Issued {
		rt.publish(ctx, events.New(events.TypeSessionCreated, map[string]interface{}{
			"device_id": deviceID.String(),
			"network":   rt.Session.State().Network.String(),
			"utm":       res.UTM,
		}))
	}
	return toSessionResponse(rt.Session.State(), res.AuthToken), res.AuthToken, nil
}

// Current reports the live state, falling back to stored tokens for a
// device whose runtime was evicted.
func (s *sessionService) Current(ctx context.Context, deviceID uuid.UUID) (*dto.SessionResponse, error) {
	rt := s.registry.Get(deviceID)
	state := rt.Session.State()
	token := state.AuthToken
	if token == "" {
		stored, err := rt.authToken(ctx)
		if err != nil {
			return nil, err
		}
		token = stored
	}
	return toSessionResponse(state, token), nil
}

func (s *sessionService) Logout(ctx context.Context, deviceID uuid.UUID) (*dto.SessionResponse, error) {
	rt := s.registry.Get(deviceID)
	if err := rt.Session.Logout(ctx); err != nil {
		return nil, err
	}
	return toSessionResponse(rt.Session.State(), ""), nil
}

func toSessionResponse(state session.State, authToken string) *dto.SessionResponse {
	return &dto.SessionResponse{
		Network:       state.Network.String(),
		Status:        string(state.Status),
		UTM:           state.UTM,
		Error:         state.Error,
		Authenticated: authToken != "" && authcookie.Authenticated(authToken),
	}
}
