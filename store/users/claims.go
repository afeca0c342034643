// store/users/claims.go
package userstore

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/northbound-labs/esidentity/model"
)

// Claims returns the user's claim list. A nil list reads as empty.
func (s *Store) Claims(user *model.User) (model.ClaimList, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if user.Claims == nil {
		return model.ClaimList{}, nil
	}
	return user.Claims, nil
}

// AddClaims merges claims into the user document in memory; persist with
// Update. Each incoming claim replaces every existing claim of the same
// type, so the operation is an upsert keyed by claim type.
func (s *Store) AddClaims(user *model.User, claims []model.Claim) error {
	if user == nil {
		return ErrNilUser
	}
	for _, c := range claims {
		user.Claims.RemoveType(c.Type)
		user.Claims.Add(c)
	}
	return nil
}

// ReplaceClaim swaps a claim on the user document in memory; persist
// with Update. Every existing claim of the old claim's type is removed
// before the new claim is added.
func (s *Store) ReplaceClaim(user *model.User, oldClaim, newClaim model.Claim) error {
	if user == nil {
		return ErrNilUser
	}
	user.Claims.RemoveType(oldClaim.Type)
	user.Claims.Add(newClaim)
	return nil
}

// RemoveClaims removes exact (type, value) pairs from the user document
// in memory; persist with Update. Pairs that are not present are skipped.
func (s *Store) RemoveClaims(user *model.User, claims []model.Claim) error {
	if user == nil {
		return ErrNilUser
	}
	for _, c := range claims {
		user.Claims.Remove(c)
	}
	return nil
}

// UsersForClaim returns the users carrying the exact (type, value) pair.
// The pair must co-occur within the same claim sub-item.
func (s *Store) UsersForClaim(ctx context.Context, claim model.Claim) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := elastic.NewNestedQuery("claims", elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("claims.type", claim.Type),
		elastic.NewTermQuery("claims.value", claim.Value),
	))
	res, err := s.es.Search().
		Index(s.opts.UsersIndex()).
		Size(s.opts.QuerySize).
		Query(q).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("users for claim: %w", err)
	}

	users := make([]*model.User, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		u, err := decodeUser(hit.Source, "users for claim")
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
