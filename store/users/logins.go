// store/users/logins.go
package userstore

import (
	"github.com/northbound-labs/esidentity/model"
)

// Logins returns the user's external login list. A nil list reads as
// empty.
func (s *Store) Logins(user *model.User) (model.LoginList, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if user.Logins == nil {
		return model.LoginList{}, nil
	}
	return user.Logins, nil
}

// AddLogin attaches an external login to the user document in memory;
// persist with Update. Adding a (provider, key) pair that is already
// attached is a no-op, so the operation is idempotent.
func (s *Store) AddLogin(user *model.User, login model.Login) error {
	if user == nil {
		return ErrNilUser
	}
	if login.LoginProvider == "" {
		return ErrEmptyLoginProvider
	}
	if login.ProviderKey == "" {
		return ErrEmptyProviderKey
	}
	user.Logins.Add(login)
	return nil
}

// RemoveLogin detaches a (provider, key) pair from the user document in
// memory; persist with Update. A pair that is not attached is a no-op.
func (s *Store) RemoveLogin(user *model.User, loginProvider, providerKey string) error {
	if user == nil {
		return ErrNilUser
	}
	if loginProvider == "" {
		return ErrEmptyLoginProvider
	}
	if providerKey == "" {
		return ErrEmptyProviderKey
	}
	user.Logins.Remove(loginProvider, providerKey)
	return nil
}
