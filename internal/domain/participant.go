package domain

import (
	"context"
	"time"
)

// ParticipantStatus is the RSVP state of a participant.
type ParticipantStatus string

const (
	StatusPending   ParticipantStatus = "PENDING"
	StatusConfirmed ParticipantStatus = "CONFIRMED"
	StatusDeclined  ParticipantStatus = "DECLINED"
)

// Valid reports whether s is one of the known statuses.
func (s ParticipantStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined:
		return true
	}
	return false
}

// ParticipantUser is the user projection embedded in participant listings.
type ParticipantUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Participant links a user to an event. (UserID, EventID) is unique.
// swagger:model Participant
type Participant struct {
	UserID    string            `json:"userId"`
	EventID   string            `json:"eventId"`
	Status    ParticipantStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	User      *ParticipantUser  `json:"user,omitempty"`
}

// NewParticipant creates a participant row; an empty status defaults to PENDING.
func NewParticipant(eventID, userID string, status ParticipantStatus, createdAt, updatedAt time.Time) *Participant {
	if status == "" {
		status = StatusPending
	}
	return &Participant{
		UserID:    userID,
		EventID:   eventID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ParticipantRepository defines storage operations for event participants.
type ParticipantRepository interface {
	// Create inserts the row; a duplicate (userId, eventId) returns ErrAlreadyParticipant.
	Create(ctx context.Context, p *Participant) error
	Get(ctx context.Context, eventID, userID string) (*Participant, error)
	UpdateStatus(ctx context.Context, eventID, userID string, status ParticipantStatus) (*Participant, error)
	Delete(ctx context.Context, eventID, userID string) error
	// ListByEventIDs returns participants of the given events with their user projection, grouped by event ID.
	ListByEventIDs(ctx context.Context, eventIDs []string) (map[string][]*Participant, error)
	ListByUserID(ctx context.Context, userID string) ([]*UserParticipation, error)
}

// ParticipantService defines participant management operations.
type ParticipantService interface {
	Add(ctx context.Context, eventID, userID string, status ParticipantStatus) (*Participant, error)
	UpdateStatus(ctx context.Context, eventID, userID string, status ParticipantStatus) (*Participant, error)
	Remove(ctx context.Context, eventID, userID string) error
}
