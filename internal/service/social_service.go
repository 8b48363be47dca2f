package service

import (
	"context"

	"github.com/google/uuid"

	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/social"
)

const defaultFrensLimit = 50

type ISocialService interface {
	Frens(ctx context.Context, deviceID uuid.UUID, q *dto.FrensQuery) (*dto.FrensResponse, error)
	Invite(ctx context.Context, deviceID uuid.UUID) (*dto.ShareResponse, error)
}

type socialService struct {
	registry *DeviceRegistry
}

func NewSocialService(registry *DeviceRegistry) ISocialService {
	return &socialService{registry: registry}
}

func (s *socialService) Frens(ctx context.Context, deviceID uuid.UUID, q *dto.FrensQuery) (*dto.FrensResponse, error) {
	rt := s.registry.Get(deviceID)
	limit := q.Limit
	if limit == 0 {
		limit = defaultFrensLimit
	}

	resp, err := rt.Frens(ctx, social.FrensRequest{Limit: limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}

	out := &dto.FrensResponse{
		Frens:       resp.Frens,
		Count:       resp.Count,
		ReferralKey: resp.ReferralKey(),
	}
	if out.Frens == nil {
		out.Frens = []social.Fren{}
	}
	if out.ReferralKey != "" {
		out.ReferralLink = rt.Referral().ForNetwork(rt.Launch(), out.ReferralKey)
	}
	return out, nil
}

func (s *socialService) Invite(ctx context.Context, deviceID uuid.UUID) (*dto.ShareResponse, error) {
	res, err := s.registry.Get(deviceID).InviteReferral(ctx)
	if err != nil {
		return nil, err
	}
	return toShareResponse(res), nil
}
