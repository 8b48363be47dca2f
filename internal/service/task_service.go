package service

import (
	"context"

	"github.com/google/uuid"

	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/mapper"
)

type ITaskService interface {
	List(ctx context.Context, deviceID uuid.UUID) (*dto.TaskListResponse, error)
	Refresh(ctx context.Context, deviceID uuid.UUID) (*dto.TaskListResponse, error)
	Click(ctx context.Context, deviceID uuid.UUID, taskID int64) (*dto.TaskClickResponse, error)
}

type taskService struct {
	registry *DeviceRegistry
	mapper   *mapper.TaskMapper
}

func NewTaskService(registry *DeviceRegistry) ITaskService {
	return &taskService{registry: registry, mapper: mapper.NewTaskMapper()}
}

func (s *taskService) List(ctx context.Context, deviceID uuid.UUID) (*dto.TaskListResponse, error) {
	rt := s.registry.Get(deviceID)
	tasks, balance, err := rt.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToListResponse(tasks, balance, rt.LocaleCode(), rt.Board.Pending), nil
}

func (s *taskService) Refresh(ctx context.Context, deviceID uuid.UUID) (*dto.TaskListResponse, error) {
	rt := s.registry.Get(deviceID)
	if err := rt.RefreshTasks(ctx); err != nil {
		return nil, err
	}
	return s.mapper.ToListResponse(rt.Board.Tasks(), rt.Board.Balance(), rt.LocaleCode(), rt.Board.Pending), nil
}

func (s *taskService) Click(ctx context.Context, deviceID uuid.UUID, taskID int64) (*dto.TaskClickResponse, error) {
	rt := s.registry.Get(deviceID)
	if _, _, err := rt.Tasks(ctx); err != nil {
		return nil, err
	}
	res, err := rt.Board.Click(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToClickResponse(res), nil
}
