package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/northbound-labs/esidentity/slug"
)

// Role carries a display name, its normalized slug, and the role's own
// claims. The id is immutable once created, and renaming an existing role
// is not a supported operation at the store level.
type Role struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Normalized string `json:"normalized"`

	Claims ClaimList `json:"claims"`

	Deleted   bool       `json:"deleted"`
	DeletedOn *time.Time `json:"deletedOn,omitempty"`
	CreatedOn time.Time  `json:"createdOn"`
}

// NewRole returns a role with a fresh id, the given name, and its derived
// normalized slug.
func NewRole(name string) *Role {
	r := &Role{
		ID:        uuid.NewString(),
		CreatedOn: time.Now().UTC(),
		Claims:    ClaimList{},
	}
	r.SetName(name)
	return r
}

// SetName sets the display name and recomputes the normalized slug.
func (r *Role) SetName(name string) {
	r.Name = name
	r.Normalized = slug.Make(name)
}
