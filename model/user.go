// model/user.go
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/northbound-labs/esidentity/slug"
)

// User is the identity root document. One user owns its claims and external
// logins outright; they are read and written only as part of the whole
// document. Role membership lives in separate UserRole link documents.
//
// Normalized must always equal slug.Make(UserName); use SetUserName so the
// two never drift apart.
type User struct {
	ID         string `json:"id"`
	UserName   string `json:"userName"`
	Normalized string `json:"normalized"`

	Email       *Confirmation `json:"email,omitempty"`
	PhoneNumber *Confirmation `json:"phoneNumber,omitempty"`

	PasswordHash  string `json:"passwordHash,omitempty"`
	SecurityStamp string `json:"securityStamp,omitempty"`

	IsTwoFactorEnabled bool       `json:"isTwoFactorEnabled"`
	IsLockoutEnabled   bool       `json:"isLockoutEnabled"`
	AccessFailedCount  int        `json:"accessFailedCount"`
	LockoutEndDate     *time.Time `json:"lockoutEndDate,omitempty"`

	Claims ClaimList `json:"claims"`
	Logins LoginList `json:"logins"`

	Deleted   bool       `json:"deleted"`
	DeletedOn *time.Time `json:"deletedOn,omitempty"`
	CreatedOn time.Time  `json:"createdOn"`
}

// NewUser returns a user with a fresh id, the given user name, and its
// derived normalized slug.
func NewUser(userName string) *User {
	u := &User{
		ID:        uuid.NewString(),
		CreatedOn: time.Now().UTC(),
		Claims:    ClaimList{},
		Logins:    LoginList{},
	}
	u.SetUserName(userName)
	return u
}

// SetUserName sets the display name and recomputes the normalized slug.
func (u *User) SetUserName(userName string) {
	u.UserName = userName
	u.Normalized = slug.Make(userName)
}

// HasPassword reports whether a password hash has been set.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
