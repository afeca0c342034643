// store/users/userstore.go
package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olivere/elastic/v7"

	"github.com/northbound-labs/esidentity/esindex"
	"github.com/northbound-labs/esidentity/model"
	"github.com/northbound-labs/esidentity/slug"
	"github.com/northbound-labs/esidentity/store"
	userrolestore "github.com/northbound-labs/esidentity/store/userroles"
)

var (
	ErrNilClient          = errors.New("elastic client must not be nil")
	ErrNilUser            = errors.New("user must not be nil")
	ErrEmptyUserID        = errors.New("user id must not be empty")
	ErrEmptyUserName      = errors.New("user name must not be empty")
	ErrEmptyEmail         = errors.New("email must not be empty")
	ErrEmptyPhoneNumber   = errors.New("phone number must not be empty")
	ErrEmptyLoginProvider = errors.New("login provider must not be empty")
	ErrEmptyProviderKey   = errors.New("provider key must not be empty")
	ErrEmptyRoleName      = errors.New("role name must not be empty")

	// ErrDuplicateID is returned when creating a user whose id already exists.
	ErrDuplicateID = errors.New("a user with this id already exists")
	// ErrDuplicateUserName is returned when creating a user whose normalized
	// user name already exists.
	ErrDuplicateUserName = errors.New("a user with this user name already exists")

	// ErrNoEmail is returned by email-confirmation operations when the user
	// has no email set.
	ErrNoEmail = errors.New("user does not have an email")
	// ErrNoPhoneNumber is returned by phone-confirmation operations when the
	// user has no phone number set.
	ErrNoPhoneNumber = errors.New("user does not have a phone number")
)

// Store persists user documents and their role links. Updates are
// whole-document replacements: field-level setters mutate the user in
// memory, and a subsequent Update resends the entire document. Every
// write forces a synchronous refresh, so a completed write is observable
// by the very next read from any caller.
//
// The store holds no mutable state beyond its configuration and is safe
// to share across goroutines. No version check is performed on update;
// the last completed write wins.
type Store struct {
	es    *elastic.Client
	opts  store.Options
	links *userrolestore.Store
}

// New validates the options, ensures the user and user-role indices, and
// returns the store. Construction fails if an index cannot be created.
func New(ctx context.Context, es *elastic.Client, opts store.Options) (*Store, error) {
	if es == nil {
		return nil, ErrNilClient
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := esindex.EnsureUsers(ctx, es, opts); err != nil {
		return nil, err
	}
	links, err := userrolestore.New(ctx, es, opts)
	if err != nil {
		return nil, err
	}
	return &Store{es: es, opts: opts, links: links}, nil
}

// Links exposes the underlying user-role link store.
func (s *Store) Links() *userrolestore.Store { return s.links }

// Create writes a new user with immediate visibility. A blank id is
// assigned. Creation fails with ErrDuplicateID or ErrDuplicateUserName on
// a collision; the check is a read before the write, so a concurrent
// create can still race past it.
func (s *Store) Create(ctx context.Context, user *model.User) error {
	if user == nil {
		return ErrNilUser
	}
	if user.UserName == "" {
		return ErrEmptyUserName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	} else {
		existing, err := s.FindByID(ctx, user.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateID
		}
	}

	if user.Normalized == "" {
		user.Normalized = slug.Make(user.UserName)
	}
	existing, err := s.FindByName(ctx, user.UserName)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateUserName
	}

	if user.CreatedOn.IsZero() {
		user.CreatedOn = time.Now().UTC()
	}
	if user.Claims == nil {
		user.Claims = model.ClaimList{}
	}
	if user.Logins == nil {
		user.Logins = model.LoginList{}
	}

	if _, err := s.es.Index().
		Index(s.opts.UsersIndex()).
		Id(user.ID).
		BodyJson(user).
		Refresh("true").
		Do(ctx); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Update replaces the whole user document with immediate visibility.
// Last write wins; two concurrent updates to the same user can silently
// lose one writer's changes.
func (s *Store) Update(ctx context.Context, user *model.User) error {
	if user == nil {
		return ErrNilUser
	}
	if user.ID == "" {
		return ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.es.Index().
		Index(s.opts.UsersIndex()).
		Id(user.ID).
		BodyJson(user).
		Refresh("true").
		Do(ctx); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// Delete removes the user document with immediate visibility. Deleting a
// user that is already gone is a no-op. Role links referencing the user
// are left in place; membership readers tolerate them.
func (s *Store) Delete(ctx context.Context, user *model.User) error {
	if user == nil {
		return ErrNilUser
	}
	if user.ID == "" {
		return ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.es.Delete().
		Index(s.opts.UsersIndex()).
		Id(user.ID).
		Refresh("true").
		Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// FindByID loads a user by id. Returns (nil, nil) when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.es.Get().
		Index(s.opts.UsersIndex()).
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
	return decodeUser(res.Source, "find by id")
}

// FindByName loads a user by user name, matching on the normalized slug
// of the argument. Returns (nil, nil) when absent.
func (s *Store) FindByName(ctx context.Context, userName string) (*model.User, error) {
	if userName == "" {
		return nil, ErrEmptyUserName
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.es.Search().
		Index(s.opts.UsersIndex()).
		Size(1).
		Query(elastic.NewTermQuery("normalized", slug.Make(userName))).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("find by name: %w", err)
	}
	return firstUser(res, "find by name")
}

// FindByLogin loads the user owning the external login. The provider and
// key must match within the same login sub-item, not across different
// logins. Returns (nil, nil) when absent.
func (s *Store) FindByLogin(ctx context.Context, loginProvider, providerKey string) (*model.User, error) {
	if loginProvider == "" {
		return nil, ErrEmptyLoginProvider
	}
	if providerKey == "" {
		return nil, ErrEmptyProviderKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := elastic.NewNestedQuery("logins", elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("logins.loginProvider", loginProvider),
		elastic.NewTermQuery("logins.providerKey", providerKey),
	))
	res, err := s.es.Search().
		Index(s.opts.UsersIndex()).
		Size(1).
		Query(q).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("find by login: %w", err)
	}
	return firstUser(res, "find by login")
}

// FindByEmail loads a user by normalized email. Returns (nil, nil) when
// absent.
func (s *Store) FindByEmail(ctx context.Context, normalizedEmail string) (*model.User, error) {
	if normalizedEmail == "" {
		return nil, ErrEmptyEmail
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.es.Search().
		Index(s.opts.UsersIndex()).
		Size(1).
		Query(elastic.NewTermQuery("email.normalized", strings.ToLower(normalizedEmail))).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	return firstUser(res, "find by email")
}

func decodeUser(src json.RawMessage, op string) (*model.User, error) {
	var u model.User
	if err := json.Unmarshal(src, &u); err != nil {
		return nil, fmt.Errorf("%s: decode user: %w", op, err)
	}
	return &u, nil
}

func firstUser(res *elastic.SearchResult, op string) (*model.User, error) {
	if len(res.Hits.Hits) == 0 {
		return nil, nil
	}
	return decodeUser(res.Hits.Hits[0].Source, op)
}
