package mapper

import (
	"miniapp-gateway/internal/dto"
	"miniapp-gateway/internal/task"
)

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToResponse flattens the localized fields for locale.
func (m *TaskMapper) ToResponse(t task.Task, locale string, pending bool) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title.Resolve(locale),
		Description: t.Data.Resolve(locale),
		Button:      t.Button.Resolve(locale),
		Link:        t.Link,
		Icon:        t.Icon,
		Color:       t.Color,
		Reward:      t.Reward,
		Priority:    t.Priority,
		Status:      t.Status,
		Claimed:     t.Claimed(),
		Pending:     pending,
		Invite:      t.IsInvite(),
	}
}

func (m *TaskMapper) ToListResponse(tasks []task.Task, balance *int64, locale string, pending func(id int64) bool) *dto.TaskListResponse {
	res := &dto.TaskListResponse{
		Tasks:   make([]dto.TaskResponse, 0, len(tasks)),
		Balance: balance,
	}
	for _, t := range tasks {
		res.Tasks = append(res.Tasks, m.ToResponse(t, locale, pending != nil && pending(t.ID)))
	}
	return res
}

func (m *TaskMapper) ToClickResponse(r task.CheckResult) *dto.TaskClickResponse {
	return &dto.TaskClickResponse{
		Old:     r.Old,
		New:     r.New,
		Reward:  r.Reward,
		Claimed: r.New == task.StatusClaimed,
		Balance: r.Balance,
	}
}
