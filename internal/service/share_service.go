package service

import (
	"context"

	"github.com/google/uuid"

	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/platform"
	"miniapp-gateway/internal/share"
)

type IShareService interface {
	Share(ctx context.Context, deviceID uuid.UUID, req *dto.ShareRequest) (*dto.ShareResponse, error)
	ShareReferral(ctx context.Context, deviceID uuid.UUID, req *dto.ReferralShareRequest) (*dto.ShareResponse, error)
	ReferralLinks(ctx context.Context, deviceID uuid.UUID, req *dto.ReferralLinkRequest) (*dto.ReferralLinksResponse, error)
}

type shareService struct {
	registry *DeviceRegistry
}

func NewShareService(registry *DeviceRegistry) IShareService {
	return &shareService{registry: registry}
}

func (s *shareService) Share(ctx context.Context, deviceID uuid.UUID, req *dto.ShareRequest) (*dto.ShareResponse, error) {
	res, err := s.registry.Get(deviceID).Share(ctx, share.Request{
		Title: req.Title,
		URL:   req.URL,
		Text:  req.Text,
	})
	if err != nil {
		return nil, err
	}
	return toShareResponse(res), nil
}

func (s *shareService) ShareReferral(ctx context.Context, deviceID uuid.UUID, req *dto.ReferralShareRequest) (*dto.ShareResponse, error) {
	rt := s.registry.Get(deviceID)
	var (
		res share.Result
		err error
	)
	if req.Key != "" {
		res, err = rt.ShareReferral(ctx, req.Key)
	} else {
		res, err = rt.InviteReferral(ctx)
	}
	if err != nil {
		return nil, err
	}
	return toShareResponse(res), nil
}

func (s *shareService) ReferralLinks(_ context.Context, deviceID uuid.UUID, req *dto.ReferralLinkRequest) (*dto.ReferralLinksResponse, error) {
	rt := s.registry.Get(deviceID)
	lc := rt.Launch()
	b := rt.Referral()
	return &dto.ReferralLinksResponse{
		Network:  platform.DetectNetwork(lc).String(),
		Link:     b.ForNetwork(lc, req.Key),
		Generic:  b.Generic(lc, req.Key),
		VK:       b.VK(lc, req.Key),
		Telegram: b.Telegram(lc, req.Key),
	}, nil
}

func toShareResponse(res share.Result) *dto.ShareResponse {
	out := &dto.ShareResponse{Status: string(res.Status), Via: res.Via}
	if res.Reason != nil {
		out.Reason = res.Reason.Error()
	}
	return out
}
