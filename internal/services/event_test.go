package services

import (
	"context"
	"testing"
	"time"

	"eventrsvp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor       = &domain.Principal{ID: "admin", Email: "admin@x.com", Role: domain.RoleAdmin}
	organizerActor   = &domain.Principal{ID: "org", Email: "o@x.com", Role: domain.RoleOrganizer}
	otherOrgActor    = &domain.Principal{ID: "org2", Email: "o2@x.com", Role: domain.RoleOrganizer}
	participantActor = &domain.Principal{ID: "p1", Email: "p@x.com", Role: domain.RoleParticipant}
)

func newEventFixture() (*memStore, domain.EventService) {
	store := newMemStore()
	store.addUser("admin", "admin@x.com", domain.RoleAdmin, true)
	store.addUser("org", "o@x.com", domain.RoleOrganizer, true)
	store.addUser("org2", "o2@x.com", domain.RoleOrganizer, true)
	store.addUser("p1", "p@x.com", domain.RoleParticipant, true)
	return store, NewEventService(store.eventRepo(), store.participantRepo(), time.Second)
}

func TestEventService_Create(t *testing.T) {
	date := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		actor   *domain.Principal
		title   string
		wantErr error
	}{
		{name: "organizer", actor: organizerActor, title: "Meetup"},
		{name: "admin", actor: adminActor, title: "Meetup"},
		{name: "participant forbidden", actor: participantActor, title: "Meetup", wantErr: domain.ErrForbidden},
		{name: "no actor", actor: nil, title: "Meetup", wantErr: domain.ErrForbidden},
		{name: "blank title", actor: organizerActor, title: "  ", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newEventFixture()
			e := domain.NewEvent(tt.title, nil, date, nil, "", time.Time{}, time.Time{})
			err := svc.Create(context.Background(), tt.actor, e)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, e.ID)
			assert.Equal(t, tt.actor.ID, e.OrganizerID)
			assert.False(t, e.CreatedAt.IsZero())
			assert.NotNil(t, e.Participants)

			got, err := svc.Get(context.Background(), e.ID)
			require.NoError(t, err)
			assert.Equal(t, "Meetup", got.Title)
		})
	}
}

func TestEventService_ListAndGet_IncludeParticipants(t *testing.T) {
	store, svc := newEventFixture()
	store.addEvent("ev-1", "org")
	store.addEvent("ev-2", "org")
	require.NoError(t, store.participantRepo().Create(context.Background(), domain.NewParticipant("ev-1", "p1", "", time.Now(), time.Now())))

	events, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Len(t, events[0].Participants, 1)
	assert.Equal(t, &domain.ParticipantUser{ID: "p1", Name: "p1", Email: "p@x.com"}, events[0].Participants[0].User)
	assert.NotNil(t, events[1].Participants)
	assert.Empty(t, events[1].Participants)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrEventNotFound)

	store.err = errDB
	_, err = svc.List(context.Background())
	require.ErrorIs(t, err, errDB)
}

func TestEventService_Update(t *testing.T) {
	title := "Renamed"
	loc := "Lisbon"
	blank := " "
	var zeroDate time.Time

	tests := []struct {
		name    string
		actor   *domain.Principal
		id      string
		patch   domain.EventPatch
		wantErr error
	}{
		{name: "owner", actor: organizerActor, id: "ev-1", patch: domain.EventPatch{Title: &title}},
		{name: "admin", actor: adminActor, id: "ev-1", patch: domain.EventPatch{Location: &loc}},
		{name: "other organizer forbidden", actor: otherOrgActor, id: "ev-1", patch: domain.EventPatch{Title: &title}, wantErr: domain.ErrForbidden},
		{name: "participant forbidden", actor: participantActor, id: "ev-1", patch: domain.EventPatch{Title: &title}, wantErr: domain.ErrForbidden},
		{name: "missing event is not found even for non owner", actor: otherOrgActor, id: "missing", patch: domain.EventPatch{Title: &title}, wantErr: domain.ErrEventNotFound},
		{name: "blank title", actor: organizerActor, id: "ev-1", patch: domain.EventPatch{Title: &blank}, wantErr: domain.ErrInvalidInput},
		{name: "blank title from non owner is forbidden", actor: otherOrgActor, id: "ev-1", patch: domain.EventPatch{Title: &blank}, wantErr: domain.ErrForbidden},
		{name: "blank title on missing event is not found", actor: otherOrgActor, id: "missing", patch: domain.EventPatch{Title: &blank}, wantErr: domain.ErrEventNotFound},
		{name: "zero date", actor: organizerActor, id: "ev-1", patch: domain.EventPatch{Date: &zeroDate}, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newEventFixture()
			orig := store.addEvent("ev-1", "org")
			desc := "kept"
			orig.Description = &desc

			e, err := svc.Update(context.Background(), tt.actor, tt.id, tt.patch)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				stored, _ := store.eventRepo().GetByID(context.Background(), "ev-1")
				assert.Equal(t, "Event ev-1", stored.Title)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, e.Description)
			assert.Equal(t, "kept", *e.Description)
			if tt.patch.Title != nil {
				assert.Equal(t, "Renamed", e.Title)
			}
			if tt.patch.Location != nil {
				assert.Equal(t, "Lisbon", *e.Location)
				assert.Equal(t, "Event ev-1", e.Title)
			}
		})
	}
}

func TestEventService_Delete(t *testing.T) {
	t.Run("owner delete cascades participants", func(t *testing.T) {
		store, svc := newEventFixture()
		store.addEvent("ev-1", "org")
		store.addEvent("ev-2", "org")
		ctx := context.Background()
		require.NoError(t, store.participantRepo().Create(ctx, domain.NewParticipant("ev-1", "p1", "", time.Now(), time.Now())))
		require.NoError(t, store.participantRepo().Create(ctx, domain.NewParticipant("ev-1", "org2", "", time.Now(), time.Now())))
		require.NoError(t, store.participantRepo().Create(ctx, domain.NewParticipant("ev-2", "p1", "", time.Now(), time.Now())))

		require.NoError(t, svc.Delete(ctx, organizerActor, "ev-1"))
		assert.Equal(t, 1, store.participantCount())
		byEvent, err := store.participantRepo().ListByEventIDs(ctx, []string{"ev-1"})
		require.NoError(t, err)
		assert.Empty(t, byEvent["ev-1"])
	})

	t.Run("non owner forbidden", func(t *testing.T) {
		store, svc := newEventFixture()
		store.addEvent("ev-1", "org")
		require.ErrorIs(t, svc.Delete(context.Background(), otherOrgActor, "ev-1"), domain.ErrForbidden)
		require.ErrorIs(t, svc.Delete(context.Background(), participantActor, "ev-1"), domain.ErrForbidden)
		_, err := store.eventRepo().GetByID(context.Background(), "ev-1")
		require.NoError(t, err)
	})

	t.Run("admin may delete any event", func(t *testing.T) {
		store, svc := newEventFixture()
		store.addEvent("ev-1", "org")
		require.NoError(t, svc.Delete(context.Background(), adminActor, "ev-1"))
	})

	t.Run("missing", func(t *testing.T) {
		_, svc := newEventFixture()
		require.ErrorIs(t, svc.Delete(context.Background(), adminActor, "missing"), domain.ErrEventNotFound)
	})
}
