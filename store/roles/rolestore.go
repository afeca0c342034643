// store/roles/rolestore.go
package rolestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/olivere/elastic/v7"

	"github.com/northbound-labs/esidentity/esindex"
	"github.com/northbound-labs/esidentity/model"
	"github.com/northbound-labs/esidentity/slug"
	"github.com/northbound-labs/esidentity/store"
)

var (
	ErrNilClient     = errors.New("elastic client must not be nil")
	ErrNilRole       = errors.New("role must not be nil")
	ErrEmptyRoleID   = errors.New("role id must not be empty")
	ErrEmptyRoleName = errors.New("role name must not be empty")

	// ErrDuplicateID is returned when creating a role whose id already exists.
	ErrDuplicateID = errors.New("a role with this id already exists")
	// ErrDuplicateRoleName is returned when creating a role whose normalized
	// name already exists.
	ErrDuplicateRoleName = errors.New("a role with this name already exists")

	// ErrRenameNotSupported marks role renaming as an intentionally
	// unimplemented capability, distinct from a validation failure.
	ErrRenameNotSupported = errors.New("changing the role name is not supported")
)

// Store persists role documents. All state lives in the index; the store
// itself is an immutable configuration value and safe to share.
type Store struct {
	es   *elastic.Client
	opts store.Options
}

// New validates the options, ensures the role index, and returns the
// store. Construction fails if the index cannot be created.
func New(ctx context.Context, es *elastic.Client, opts store.Options) (*Store, error) {
	if es == nil {
		return nil, ErrNilClient
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := esindex.EnsureRoles(ctx, es, opts); err != nil {
		return nil, err
	}
	return &Store{es: es, opts: opts}, nil
}

// Create writes a new role with immediate visibility. A blank id is
// assigned. Creation fails with ErrDuplicateID or ErrDuplicateRoleName on
// a collision; the check is a read before the write, so a concurrent
// create can still race past it.
func (s *Store) Create(ctx context.Context, role *model.Role) error {
	if role == nil {
		return ErrNilRole
	}
	if role.Name == "" {
		return ErrEmptyRoleName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if role.ID == "" {
		role.ID = uuid.NewString()
	} else {
		existing, err := s.FindByID(ctx, role.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateID
		}
	}

	if role.Normalized == "" {
		role.Normalized = slug.Make(role.Name)
	}
	existing, err := s.FindByName(ctx, role.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateRoleName
	}

	if role.CreatedOn.IsZero() {
		role.CreatedOn = time.Now().UTC()
	}
	if role.Claims == nil {
		role.Claims = model.ClaimList{}
	}

	if _, err := s.es.Index().
		Index(s.opts.RolesIndex()).
		Id(role.ID).
		BodyJson(role).
		Refresh("true").
		Do(ctx); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Update replaces the whole role document with immediate visibility.
// Last write wins; no version check is performed.
func (s *Store) Update(ctx context.Context, role *model.Role) error {
	if role == nil {
		return ErrNilRole
	}
	if role.ID == "" {
		return ErrEmptyRoleID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.es.Index().
		Index(s.opts.RolesIndex()).
		Id(role.ID).
		BodyJson(role).
		Refresh("true").
		Do(ctx); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// Delete removes the role document with immediate visibility. Deleting a
// role that is already gone is a no-op. Link documents referencing the
// role are left in place; membership readers tolerate them.
func (s *Store) Delete(ctx context.Context, role *model.Role) error {
	if role == nil {
		return ErrNilRole
	}
	if role.ID == "" {
		return ErrEmptyRoleID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.es.Delete().
		Index(s.opts.RolesIndex()).
		Id(role.ID).
		Refresh("true").
		Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// FindByID loads a role by id. Returns (nil, nil) when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*model.Role, error) {
	if id == "" {
		return nil, ErrEmptyRoleID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.es.Get().
		Index(s.opts.RolesIndex()).
		Id(id).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by id: %w", err)
	}
	if !res.Found {
		return nil, nil
	}

	var role model.Role
	if err := json.Unmarshal(res.Source, &role); err != nil {
		return nil, fmt.Errorf("find by id: decode role: %w", err)
	}
	return &role, nil
}

// FindByName loads a role by name, matching on the normalized slug of the
// argument. Returns (nil, nil) when absent.
func (s *Store) FindByName(ctx context.Context, name string) (*model.Role, error) {
	if name == "" {
		return nil, ErrEmptyRoleName
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.es.Search().
		Index(s.opts.RolesIndex()).
		Size(1).
		Query(elastic.NewTermQuery("normalized", slug.Make(name))).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("find by name: %w", err)
	}
	if len(res.Hits.Hits) == 0 {
		return nil, nil
	}

	var role model.Role
	if err := json.Unmarshal(res.Hits.Hits[0].Source, &role); err != nil {
		return nil, fmt.Errorf("find by name: decode role: %w", err)
	}
	return &role, nil
}

// Claims returns the role's claim list. A nil list reads as empty.
func (s *Store) Claims(role *model.Role) (model.ClaimList, error) {
	if role == nil {
		return nil, ErrNilRole
	}
	if role.Claims == nil {
		return model.ClaimList{}, nil
	}
	return role.Claims, nil
}

// AddClaim adds a claim to the role document in memory; persist with
// Update. Adding an existing (type, value) pair is a no-op.
func (s *Store) AddClaim(role *model.Role, claim model.Claim) error {
	if role == nil {
		return ErrNilRole
	}
	role.Claims.Add(claim)
	return nil
}

// RemoveClaim removes a (type, value) pair from the role document in
// memory; persist with Update.
func (s *Store) RemoveClaim(role *model.Role, claim model.Claim) error {
	if role == nil {
		return ErrNilRole
	}
	role.Claims.Remove(claim)
	return nil
}

// SetRoleName always fails: renaming a role is not supported.
func (s *Store) SetRoleName(role *model.Role, name string) error {
	return ErrRenameNotSupported
}

// SetNormalizedRoleName always fails: renaming a role is not supported.
func (s *Store) SetNormalizedRoleName(role *model.Role, normalized string) error {
	return ErrRenameNotSupported
}
