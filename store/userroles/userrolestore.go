// store/userroles/userrolestore.go
package userrolestore

// Role membership is modeled as one link document per (user, role) pair,
// keyed by userId and normalizedRoleName. The pair's uniqueness is the
// caller's idempotent check (the user store tests membership before
// linking), not an index constraint. References are weak: links can
// outlive the user or role they point at, and readers of the links must
// tolerate that.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/northbound-labs/esidentity/esindex"
	"github.com/northbound-labs/esidentity/model"
	"github.com/northbound-labs/esidentity/store"
)

var (
	ErrNilClient     = errors.New("elastic client must not be nil")
	ErrEmptyUserID   = errors.New("user id must not be empty")
	ErrEmptyRoleName = errors.New("normalized role name must not be empty")
)

type Store struct {
	es   *elastic.Client
	opts store.Options
}

// New validates the options, ensures the link index, and returns the
// store. Construction fails if the index cannot be created.
func New(ctx context.Context, es *elastic.Client, opts store.Options) (*Store, error) {
	if es == nil {
		return nil, ErrNilClient
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := esindex.EnsureUserRoles(ctx, es, opts); err != nil {
		return nil, err
	}
	return &Store{es: es, opts: opts}, nil
}

// Link writes a membership document for (userID, normalizedRoleName) with
// immediate visibility. It does not check for an existing pair.
func (s *Store) Link(ctx context.Context, userID, normalizedRoleName string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if normalizedRoleName == "" {
		return ErrEmptyRoleName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	link := model.NewUserRole(normalizedRoleName, userID)
	_, err := s.es.Index().
		Index(s.opts.UserRolesIndex()).
		Id(link.ID).
		BodyJson(link).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return fmt.Errorf("link: %w", err)
	}
	return nil
}

// Unlink removes every membership document matching both keys, with
// immediate visibility. Unlinking a pair that was never linked is a no-op.
func (s *Store) Unlink(ctx context.Context, userID, normalizedRoleName string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if normalizedRoleName == "" {
		return ErrEmptyRoleName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	q := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("normalizedRoleName", normalizedRoleName),
		elastic.NewTermQuery("userId", userID),
	)
	_, err := s.es.DeleteByQuery().
		Index(s.opts.UserRolesIndex()).
		Query(q).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	return nil
}

// Exists reports whether a link document for (userID, normalizedRoleName)
// is present.
func (s *Store) Exists(ctx context.Context, userID, normalizedRoleName string) (bool, error) {
	if userID == "" {
		return false, ErrEmptyUserID
	}
	if normalizedRoleName == "" {
		return false, ErrEmptyRoleName
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	q := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("normalizedRoleName", normalizedRoleName),
		elastic.NewTermQuery("userId", userID),
	)
	res, err := s.es.Search().
		Index(s.opts.UserRolesIndex()).
		Size(1).
		Query(q).
		Do(ctx)
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return res.TotalHits() > 0, nil
}

// RolesOf returns the distinct normalized role names the user is linked
// to, in link order.
func (s *Store) RolesOf(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links, err := s.search(ctx, elastic.NewTermQuery("userId", userID), "roles of")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(links))
	names := make([]string, 0, len(links))
	for _, l := range links {
		if !seen[l.NormalizedRoleName] {
			seen[l.NormalizedRoleName] = true
			names = append(names, l.NormalizedRoleName)
		}
	}
	return names, nil
}

// UsersIn returns the distinct user ids linked to the normalized role
// name.
func (s *Store) UsersIn(ctx context.Context, normalizedRoleName string) ([]string, error) {
	if normalizedRoleName == "" {
		return nil, ErrEmptyRoleName
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links, err := s.search(ctx, elastic.NewTermQuery("normalizedRoleName", normalizedRoleName), "users in")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(links))
	ids := make([]string, 0, len(links))
	for _, l := range links {
		if !seen[l.UserID] {
			seen[l.UserID] = true
			ids = append(ids, l.UserID)
		}
	}
	return ids, nil
}

func (s *Store) search(ctx context.Context, q elastic.Query, op string) ([]model.UserRole, error) {
	res, err := s.es.Search().
		Index(s.opts.UserRolesIndex()).
		Size(s.opts.QuerySize).
		Query(q).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	links := make([]model.UserRole, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var l model.UserRole
		if err := json.Unmarshal(hit.Source, &l); err != nil {
			return nil, fmt.Errorf("%s: decode link: %w", op, err)
		}
		links = append(links, l)
	}
	return links, nil
}
