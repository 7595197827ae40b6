package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhub/taskhub-api/internal/core/domain"
	"github.com/taskhub/taskhub-api/internal/core/ports"
)

type TaskService struct {
	repo   ports.TaskRepository
	policy ports.OwnershipPolicy
	log    zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, policy ports.OwnershipPolicy, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, policy: policy, log: log}
}

func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListByUser returns the tasks owned by userID. An unknown user has no tasks.
func (s *TaskService) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of user %d: %w", userID, err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new task owned by the principal.
func (s *TaskService) Create(ctx context.Context, p domain.Principal, in ports.CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       title,
		Description: in.Description,
		Completed:   in.Completed,
		UserID:      p.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info().Int64("task_id", created.ID).Int64("user_id", p.ID).Msg("task created")
	return created, nil
}

// Update merges patch into the task. A missing task is reported before an
// ownership mismatch.
func (s *TaskService) Update(ctx context.Context, p domain.Principal, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModifyTask(p, task.UserID) {
		return nil, domain.ErrForbidden
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.ErrInvalidInput
		}
		patch.Title = &title
	}
	patch.Apply(task)
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}

	s.log.Info().Int64("task_id", id).Int64("user_id", p.ID).Msg("task updated")
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModifyTask(p, task.UserID) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	s.log.Info().Int64("task_id", id).Int64("user_id", p.ID).Msg("task deleted")
	return nil
}
