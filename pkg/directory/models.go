package directory

import (
	"time"

	"github.com/google/uuid"
)

// Gender enumerates the gender values carried by a user profile.
type Gender int32

const (
	GenderFemale  Gender = 0
	GenderMale    Gender = 1
	GenderUnknown Gender = 2
)

// Valid reports whether g is one of the defined enum values.
func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale || g == GenderUnknown
}

// User represents a user record in the directory.
type User struct {
	ID           uuid.UUID
	Login        string
	PasswordHash string
	Name         string
	Gender       Gender
	Birthday     *time.Time
	Admin        bool

	CreatedOn  time.Time
	CreatedBy  string
	ModifiedOn *time.Time
	ModifiedBy *string
	RevokedOn  *time.Time
	RevokedBy  *string
}

// IsActive reports whether the user has not been revoked (soft-deleted).
func (u User) IsActive() bool {
	return u.RevokedOn == nil
}

// UserView is the full user representation returned to callers.
type UserView struct {
	ID         uuid.UUID  `json:"id"`
	Login      string     `json:"login"`
	Name       string     `json:"name"`
	Gender     Gender     `json:"gender"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Admin      bool       `json:"admin"`
	CreatedOn  time.Time  `json:"created_on"`
	CreatedBy  string     `json:"created_by"`
	ModifiedOn *time.Time `json:"modified_on,omitempty"`
	ModifiedBy *string    `json:"modified_by,omitempty"`
	RevokedOn  *time.Time `json:"revoked_on,omitempty"`
	RevokedBy  *string    `json:"revoked_by,omitempty"`
	IsActive   bool       `json:"is_active"`
}

// UserBriefView is the reduced representation returned by the admin lookup:
// profile fields and the active flag only, no identifiers or audit stamps.
type UserBriefView struct {
	Name     string     `json:"name"`
	Gender   Gender     `json:"gender"`
	Birthday *time.Time `json:"birthday,omitempty"`
	IsActive bool       `json:"is_active"`
}

// ViewFromUser converts a user entity to its full view model.
func ViewFromUser(u User) UserView {
	return UserView{
		ID:         u.ID,
		Login:      u.Login,
		Name:       u.Name,
		Gender:     u.Gender,
		Birthday:   u.Birthday,
		Admin:      u.Admin,
		CreatedOn:  u.CreatedOn,
		CreatedBy:  u.CreatedBy,
		ModifiedOn: u.ModifiedOn,
		ModifiedBy: u.ModifiedBy,
		RevokedOn:  u.RevokedOn,
		RevokedBy:  u.RevokedBy,
		IsActive:   u.IsActive(),
	}
}

// BriefViewFromUser converts a user entity to its brief view model.
func BriefViewFromUser(u User) UserBriefView {
	return UserBriefView{
		Name:     u.Name,
		Gender:   u.Gender,
		Birthday: u.Birthday,
		IsActive: u.IsActive(),
	}
}
