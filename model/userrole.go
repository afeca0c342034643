package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole links a user to a role by normalized role name. Many link
// documents may share a userId or a normalizedRoleName; the pair is the
// effective unique key, enforced by the caller's idempotent check rather
// than by the index. References are weak: a link may outlive the user or
// role it points at.
type UserRole struct {
	ID                 string    `json:"id"`
	NormalizedRoleName string    `json:"normalizedRoleName"`
	UserID             string    `json:"userId"`
	CreatedOn          time.Time `json:"createdOn"`
}

// NewUserRole returns a link document with a fresh id.
func NewUserRole(normalizedRoleName, userID string) *UserRole {
	return &UserRole{
		ID:                 uuid.NewString(),
		NormalizedRoleName: normalizedRoleName,
		UserID:             userID,
		CreatedOn:          time.Now().UTC(),
	}
}
