package domain

import (
	"context"
	"time"
)

// Role represents an application role.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleOrganizer   Role = "ORGANIZER"
	RoleParticipant Role = "PARTICIPANT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleParticipant:
		return true
	}
	return false
}

// User represents a registered user. PasswordHash and VerificationCode never leave the server.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	IsVerified       bool      `json:"isVerified"`
	VerificationCode *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewUser returns an unverified participant. ID is set by the caller before Create.
func NewUser(email, name, passwordHash, verificationCode string, createdAt time.Time) *User {
	return &User{
		Email:            email,
		Name:             name,
		PasswordHash:     passwordHash,
		Role:             RoleParticipant,
		VerificationCode: &verificationCode,
		CreatedAt:        createdAt,
	}
}

// PublicUser is the projection returned on login.
// swagger:model PublicUser
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Public returns the login projection of u.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Principal returns the token subject for u.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// UserParticipation is one of a user's event memberships, with its event.
type UserParticipation struct {
	EventID string            `json:"eventId"`
	Status  ParticipantStatus `json:"status"`
	Event   *Event            `json:"event"`
}

// UserDetail is a user together with the events they take part in.
// swagger:model UserDetail
type UserDetail struct {
	*User
	Events []*UserParticipation `json:"events"`
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	Role         *Role
	PasswordHash *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil && p.PasswordHash == nil
}

// UserUpdate is the service-level partial update; Password is plaintext and hashed by the service.
type UserUpdate struct {
	Name     *string
	Email    *string
	Role     *Role
	Password *string
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*User, error)
	// MarkVerified flips is_verified for an unverified user; it returns ErrAlreadyVerified when no row changed.
	MarkVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ExistsByRole(ctx context.Context, role Role) (bool, error)
}

// AccountService implements registration, verification, login and the admin bootstrap.
type AccountService interface {
	Register(ctx context.Context, email, name, password string) (userID string, err error)
	Verify(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (token string, user *PublicUser, err error)
	Seed(ctx context.Context) (admin *User, created bool, err error)
}

// UserService defines user administration operations.
type UserService interface {
	List(ctx context.Context) ([]*User, error)
	Get(ctx context.Context, id string) (*UserDetail, error)
	Update(ctx context.Context, id string, update UserUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
}
