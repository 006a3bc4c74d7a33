package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	contextTimeout  time.Duration
	now             func() time.Time
}

func NewEventService(eventRepo domain.EventRepository, participantRepo domain.ParticipantRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		contextTimeout:  timeout,
		now:             time.Now,
	}
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if err := s.attachParticipants(ctx, events...); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachParticipants(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Create stores event with the actor as organizer.
func (s *eventService) Create(ctx context.Context, actor *domain.Principal, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.CanPerform(actor, domain.ActionCreateEvent, nil) {
		return domain.ErrForbidden
	}
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	event.ID = uuid.NewString()
	event.OrganizerID = actor.ID
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.Participants = []*domain.Participant{}
	return nil
}

// Update applies patch after the existence and ownership checks, in that order.
func (s *eventService) Update(ctx context.Context, actor *domain.Principal, id string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanPerform(actor, domain.ActionUpdateEvent, current) {
		return nil, domain.ErrForbidden
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
		}
		patch.Title = &title
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return nil, fmt.Errorf("%w: date must not be zero", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := s.attachParticipants(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes the event and, by cascade, its participants.
func (s *eventService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanPerform(actor, domain.ActionDeleteEvent, current) {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) getEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) attachParticipants(ctx context.Context, events ...*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	byEvent, err := s.participantRepo.ListByEventIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	for _, e := range events {
		e.Participants = byEvent[e.ID]
		if e.Participants == nil {
			e.Participants = []*domain.Participant{}
		}
	}
	return nil
}
