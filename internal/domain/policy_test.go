package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	admin := &Principal{ID: "admin-1", Role: RoleAdmin}
	organizer := &Principal{ID: "org-1", Role: RoleOrganizer}
	otherOrganizer := &Principal{ID: "org-2", Role: RoleOrganizer}
	participant := &Principal{ID: "p-1", Role: RoleParticipant}
	event := &Event{ID: "ev-1", OrganizerID: "org-1"}

	tests := []struct {
		name   string
		actor  *Principal
		action Action
		event  *Event
		want   bool
	}{
		{"nil actor", nil, ActionListEvents, nil, false},
		{"admin lists users", admin, ActionListUsers, nil, true},
		{"organizer lists users", organizer, ActionListUsers, nil, true},
		{"participant cannot list users", participant, ActionListUsers, nil, false},
		{"participant views user", participant, ActionViewUser, nil, true},
		{"organizer cannot update user", organizer, ActionUpdateUser, nil, false},
		{"admin deletes user", admin, ActionDeleteUser, nil, true},
		{"participant cannot create event", participant, ActionCreateEvent, nil, false},
		{"organizer creates event", organizer, ActionCreateEvent, nil, true},
		{"gate admits participant for event update", participant, ActionUpdateEvent, nil, true},
		{"owner updates event", organizer, ActionUpdateEvent, event, true},
		{"non-owner organizer cannot update", otherOrganizer, ActionUpdateEvent, event, false},
		{"non-owner participant cannot delete", participant, ActionDeleteEvent, event, false},
		{"admin deletes any event", admin, ActionDeleteEvent, event, true},
		{"participant cannot manage participants", participant, ActionManageParticipants, nil, false},
		{"organizer manages participants of any event", otherOrganizer, ActionManageParticipants, event, true},
		{"unknown action", admin, Action("nope"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.actor, tt.action, tt.event))
		})
	}
}

func TestAllowedRoles_ReturnsCopy(t *testing.T) {
	roles := AllowedRoles(ActionListUsers)
	assert.Equal(t, []Role{RoleAdmin, RoleOrganizer}, roles)
	roles[0] = RoleParticipant
	assert.Equal(t, []Role{RoleAdmin, RoleOrganizer}, AllowedRoles(ActionListUsers))
	assert.Empty(t, AllowedRoles(Action("nope")))
}

func TestRoleAndStatusValid(t *testing.T) {
	assert.True(t, RoleOrganizer.Valid())
	assert.False(t, Role("ROOT").Valid())
	assert.True(t, StatusDeclined.Valid())
	assert.False(t, ParticipantStatus("MAYBE").Valid())
	assert.Equal(t, StatusPending, NewParticipant("ev", "u", "", time.Time{}, time.Time{}).Status)
}
