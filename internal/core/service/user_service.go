package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskhub/taskhub-api/internal/core/domain"
	"github.com/taskhub/taskhub-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	policy ports.OwnershipPolicy
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, policy ports.OwnershipPolicy, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, policy: policy, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update replaces username and email of the principal's own account.
func (s *UserService) Update(ctx context.Context, p domain.Principal, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	if !s.policy.CanModifyUser(p, id) {
		return nil, domain.ErrForbidden
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Username = username
	user.Email = email

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.log.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

// Delete removes the principal's own account and every task it owns.
func (s *UserService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if !s.policy.CanModifyUser(p, id) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
