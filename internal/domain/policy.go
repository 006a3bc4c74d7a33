package domain

// Action names an operation subject to authorization.
type Action string

const (
	ActionListUsers          Action = "users:list"
	ActionViewUser           Action = "users:view"
	ActionUpdateUser         Action = "users:update"
	ActionDeleteUser         Action = "users:delete"
	ActionListEvents         Action = "events:list"
	ActionViewEvent          Action = "events:view"
	ActionCreateEvent        Action = "events:create"
	ActionUpdateEvent        Action = "events:update"
	ActionDeleteEvent        Action = "events:delete"
	ActionManageParticipants Action = "participants:manage"
)

var allRoles = []Role{RoleAdmin, RoleOrganizer, RoleParticipant}

// rolePolicy lists the roles admitted by the route gate for each action.
var rolePolicy = map[Action][]Role{
	ActionListUsers:          {RoleAdmin, RoleOrganizer},
	ActionViewUser:           allRoles,
	ActionUpdateUser:         {RoleAdmin},
	ActionDeleteUser:         {RoleAdmin},
	ActionListEvents:         allRoles,
	ActionViewEvent:          allRoles,
	ActionCreateEvent:        {RoleAdmin, RoleOrganizer},
	ActionUpdateEvent:        allRoles,
	ActionDeleteEvent:        allRoles,
	ActionManageParticipants: {RoleAdmin, RoleOrganizer},
}

// ownedActions additionally require the actor to organize the event, unless the actor is an ADMIN.
var ownedActions = map[Action]bool{
	ActionUpdateEvent: true,
	ActionDeleteEvent: true,
}

// AllowedRoles returns the roles admitted for action. Unknown actions admit nobody.
func AllowedRoles(action Action) []Role {
	roles := rolePolicy[action]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// CanPerform is the single authorization decision for action.
// With a nil event it evaluates the role rule only, as the route gate does before the event is loaded.
// With an event it also applies the ownership rule for owned actions.
func CanPerform(actor *Principal, action Action, event *Event) bool {
	if actor == nil {
		return false
	}
	if !roleAllowed(actor.Role, rolePolicy[action]) {
		return false
	}
	if !ownedActions[action] || event == nil {
		return true
	}
	return actor.Role == RoleAdmin || event.OrganizerID == actor.ID
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
