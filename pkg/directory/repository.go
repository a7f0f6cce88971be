package directory

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	// ErrUserNotFound is returned when no user exists with the given login or ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrLoginTaken is returned when a create or rename collides with an
	// existing login. The store's unique constraint is the final arbiter:
	// a race that slips past an existence check still surfaces as this error.
	ErrLoginTaken = errors.New("login already taken")
)

// CreateUserParams represents parameters for creating a user record.
type CreateUserParams struct {
	Login        string
	PasswordHash string
	Name         string
	Gender       Gender
	Birthday     *time.Time
	Admin        bool
	CreatedBy    string
}

// UserRepository defines the storage contract for user records.
//
// Implementations must enforce login uniqueness across all users, revoked
// ones included, and report violations as ErrLoginTaken.
type UserRepository interface {
	// GetUserByLogin returns the user with the given login, revoked or not.
	GetUserByLogin(ctx context.Context, login string) (User, error)

	// ExistsByLogin reports whether any user, revoked or not, has the login.
	ExistsByLogin(ctx context.Context, login string) (bool, error)

	// CreateUser inserts a new user record stamped with CreatedOn = now.
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)

	// UpdateUser persists all mutable fields of the user identified by user.ID.
	UpdateUser(ctx context.Context, user User) (User, error)

	// DeleteUser removes the record permanently.
	DeleteUser(ctx context.Context, login string) error

	// ListActiveUsers returns all non-revoked users ordered by CreatedOn ascending.
	ListActiveUsers(ctx context.Context) ([]User, error)

	// ListUsersBornOnOrBefore returns users with a birthday on or before the
	// cutoff, ordered by birthday ascending. Users without a birthday are
	// excluded.
	ListUsersBornOnOrBefore(ctx context.Context, cutoff time.Time) ([]User, error)
}
