// store/users/roles.go
package userstore

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/northbound-labs/esidentity/model"
	"github.com/northbound-labs/esidentity/slug"
)

// AddToRole links the user to the role, matching on the normalized slug
// of the role name. Adding a membership that already exists is a no-op,
// so the operation is idempotent.
func (s *Store) AddToRole(ctx context.Context, user *model.User, roleName string) error {
	if user == nil {
		return ErrNilUser
	}
	if user.ID == "" {
		return ErrEmptyUserID
	}
	if roleName == "" {
		return ErrEmptyRoleName
	}

	normalized := slug.Make(roleName)
	in, err := s.links.Exists(ctx, user.ID, normalized)
	if err != nil {
		return fmt.Errorf("add to role: %w", err)
	}
	if in {
		return nil
	}
	if err := s.links.Link(ctx, user.ID, normalized); err != nil {
		return fmt.Errorf("add to role: %w", err)
	}
	return nil
}

// RemoveFromRole unlinks the user from the role. Removing a membership
// that does not exist is a no-op.
func (s *Store) RemoveFromRole(ctx context.Context, user *model.User, roleName string) error {
	if user == nil {
		return ErrNilUser
	}
	if user.ID == "" {
		return ErrEmptyUserID
	}
	if roleName == "" {
		return ErrEmptyRoleName
	}

	if err := s.links.Unlink(ctx, user.ID, slug.Make(roleName)); err != nil {
		return fmt.Errorf("remove from role: %w", err)
	}
	return nil
}

// IsInRole reports whether the user is linked to the role.
func (s *Store) IsInRole(ctx context.Context, user *model.User, roleName string) (bool, error) {
	if user == nil {
		return false, ErrNilUser
	}
	if user.ID == "" {
		return false, ErrEmptyUserID
	}
	if roleName == "" {
		return false, ErrEmptyRoleName
	}

	in, err := s.links.Exists(ctx, user.ID, slug.Make(roleName))
	if err != nil {
		return false, fmt.Errorf("is in role: %w", err)
	}
	return in, nil
}

// Roles returns the distinct normalized role names the user belongs to.
func (s *Store) Roles(ctx context.Context, user *model.User) ([]string, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if user.ID == "" {
		return nil, ErrEmptyUserID
	}

	names, err := s.links.RolesOf(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	return names, nil
}

// UsersInRole returns exactly the users currently linked to the role.
// Links pointing at users that no longer exist are skipped silently, so
// a deleted user never resurfaces through a stale membership.
func (s *Store) UsersInRole(ctx context.Context, roleName string) ([]*model.User, error) {
	if roleName == "" {
		return nil, ErrEmptyRoleName
	}

	ids, err := s.links.UsersIn(ctx, slug.Make(roleName))
	if err != nil {
		return nil, fmt.Errorf("users in role: %w", err)
	}
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	mget := s.es.MultiGet()
	for _, id := range ids {
		mget.Add(elastic.NewMultiGetItem().Index(s.opts.UsersIndex()).Id(id))
	}
	res, err := mget.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("users in role: %w", err)
	}

	users := make([]*model.User, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if !doc.Found {
			continue
		}
		u, err := decodeUser(doc.Source, "users in role")
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
