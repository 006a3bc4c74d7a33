package domain

import (
	"context"
	"time"
)

// Event represents an event organized by a user.
// swagger:model Event
type Event struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	Date         time.Time      `json:"date"`
	Location     *string        `json:"location"`
	OrganizerID  string         `json:"organizerId"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Participants []*Participant `json:"participants"`
}

// NewEvent returns a new Event with the given fields. ID is set by the service on create.
func NewEvent(title string, description *string, date time.Time, location *string, organizerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		OrganizerID: organizerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventPatch carries the fields of a partial event update. Nil fields are left untouched.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Location == nil
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	// Delete removes the event; its participant rows are removed by cascade.
	Delete(ctx context.Context, id string) error
}

// EventService defines event operations. Write operations receive the acting principal for the ownership check.
type EventService interface {
	List(ctx context.Context) ([]*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, actor *Principal, event *Event) error
	Update(ctx context.Context, actor *Principal, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, actor *Principal, id string) error
}
