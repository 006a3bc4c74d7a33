package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventrsvp/internal/domain"
)

type participantService struct {
	participantRepo domain.ParticipantRepository
	eventRepo       domain.EventRepository
	userRepo        domain.UserRepository
	contextTimeout  time.Duration
	now             func() time.Time
}

func NewParticipantService(participantRepo domain.ParticipantRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository, timeout time.Duration) domain.ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		contextTimeout:  timeout,
		now:             time.Now,
	}
}

// Add registers userID on eventID. An empty status means PENDING; an existing pair is a conflict.
func (s *participantService) Add(ctx context.Context, eventID, userID string, status domain.ParticipantStatus) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := s.now().UTC()
	p := domain.NewParticipant(eventID, userID, status, now, now)
	if err := s.participantRepo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrAlreadyParticipant) || domain.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("add participant: %w", err)
	}
	p.User = participantUser(user)
	return p, nil
}

func (s *participantService) UpdateStatus(ctx context.Context, eventID, userID string, status domain.ParticipantStatus) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	p, err := s.participantRepo.UpdateStatus(ctx, eventID, userID, status)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update participant: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	p.User = participantUser(user)
	return p, nil
}

func (s *participantService) Remove(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.participantRepo.Delete(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return err
		}
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

func participantUser(u *domain.User) *domain.ParticipantUser {
	return &domain.ParticipantUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
