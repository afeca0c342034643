// Package store holds configuration shared by the user, role, and
// user-role stores. Options are immutable after construction; the stores
// keep no other in-process state, so every store is safe to share across
// goroutines.
package store

import "errors"

const (
	DefaultIndex         = "es-identity"
	DefaultUsersType     = "users"
	DefaultRolesType     = "roles"
	DefaultUserRolesType = "user-roles"
	DefaultQuerySize     = 1000
	DefaultShards        = 1
	DefaultReplicas      = 0
)

var (
	ErrEmptyIndex = errors.New("index name must not be empty")
	ErrBadShards  = errors.New("shards must be at least 1")
)

// Options configures the backing indices. The zero value plus
// WithDefaults yields a working single-shard, zero-replica setup under
// the "es-identity" base name.
//
// Each document type lives in its own physical index named
// "<Index>-<type>"; that keeps id namespaces and field mappings disjoint
// and every query scoped to one document shape.
type Options struct {
	// Index is the base name all physical index names derive from.
	Index string

	UsersType     string
	RolesType     string
	UserRolesType string

	// QuerySize bounds unpaged result sets (users for a claim, users in
	// a role, a user's role links).
	QuerySize int

	Shards   int
	Replicas int
}

// WithDefaults fills unset fields with the package defaults.
func (o Options) WithDefaults() Options {
	if o.Index == "" {
		o.Index = DefaultIndex
	}
	if o.UsersType == "" {
		o.UsersType = DefaultUsersType
	}
	if o.RolesType == "" {
		o.RolesType = DefaultRolesType
	}
	if o.UserRolesType == "" {
		o.UserRolesType = DefaultUserRolesType
	}
	if o.QuerySize == 0 {
		o.QuerySize = DefaultQuerySize
	}
	if o.Shards == 0 {
		o.Shards = DefaultShards
	}
	return o
}

// Validate rejects option sets no store could run on. Call after
// WithDefaults.
func (o Options) Validate() error {
	if o.Index == "" {
		return ErrEmptyIndex
	}
	if o.Shards < 1 {
		return ErrBadShards
	}
	return nil
}

// UsersIndex is the physical index holding user documents.
func (o Options) UsersIndex() string { return o.Index + "-" + o.UsersType }

// RolesIndex is the physical index holding role documents.
func (o Options) RolesIndex() string { return o.Index + "-" + o.RolesType }

// UserRolesIndex is the physical index holding user-role link documents.
func (o Options) UserRolesIndex() string { return o.Index + "-" + o.UserRolesType }
