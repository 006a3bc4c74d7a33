package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

type userService struct {
	userRepo        domain.UserRepository
	participantRepo domain.ParticipantRepository
	hasher          domain.PasswordHasher
	contextTimeout  time.Duration
}

// NewUserService creates a UserService with the given repositories and password hasher.
func NewUserService(userRepo domain.UserRepository, participantRepo domain.ParticipantRepository, hasher domain.PasswordHasher, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:        userRepo,
		participantRepo: participantRepo,
		hasher:          hasher,
		contextTimeout:  timeout,
	}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.UserDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	events, err := s.participantRepo.ListByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	if events == nil {
		events = []*domain.UserParticipation{}
	}
	return &domain.UserDetail{User: user, Events: events}, nil
}

// Update applies only the fields present in update. A new password is hashed before storage.
func (s *userService) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	patch := domain.UserPatch{Role: update.Role}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		patch.Name = &name
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		patch.Email = &email
	}
	if update.Role != nil && !update.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *update.Role)
	}
	if update.Password != nil {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	user, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes the user; their events and participations go with them.
func (s *userService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
