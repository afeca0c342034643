// store/users/profile.go
package userstore

// Field-level accessors over the user document. These mutate the
// in-memory document only; the caller persists the result with Update.

import (
	"strings"
	"time"

	"github.com/northbound-labs/esidentity/model"
)

// SetUserName renames the user and recomputes the normalized slug.
func (s *Store) SetUserName(user *model.User, userName string) error {
	if user == nil {
		return ErrNilUser
	}
	if userName == "" {
		return ErrEmptyUserName
	}
	user.SetUserName(userName)
	return nil
}

// UserName returns the user's display name.
func (s *Store) UserName(user *model.User) (string, error) {
	if user == nil {
		return "", ErrNilUser
	}
	return user.UserName, nil
}

// NormalizedUserName returns the user's normalized slug.
func (s *Store) NormalizedUserName(user *model.User) (string, error) {
	if user == nil {
		return "", ErrNilUser
	}
	return user.Normalized, nil
}

// SetNormalizedUserName is a no-op: the normalized name is always
// derived from the user name and never set directly.
func (s *Store) SetNormalizedUserName(user *model.User, normalized string) error {
	if user == nil {
		return ErrNilUser
	}
	return nil
}

// SetPasswordHash stores the already-hashed password on the document.
func (s *Store) SetPasswordHash(user *model.User, passwordHash string) error {
	if user == nil {
		return ErrNilUser
	}
	user.PasswordHash = passwordHash
	return nil
}

// PasswordHash returns the stored password hash, empty when none is set.
func (s *Store) PasswordHash(user *model.User) (string, error) {
	if user == nil {
		return "", ErrNilUser
	}
	return user.PasswordHash, nil
}

// HasPassword reports whether a password hash is set.
func (s *Store) HasPassword(user *model.User) (bool, error) {
	if user == nil {
		return false, ErrNilUser
	}
	return user.HasPassword(), nil
}

// SetSecurityStamp stores the security stamp on the document.
func (s *Store) SetSecurityStamp(user *model.User, stamp string) error {
	if user == nil {
		return ErrNilUser
	}
	user.SecurityStamp = stamp
	return nil
}

// SecurityStamp returns the stored security stamp.
func (s *Store) SecurityStamp(user *model.User) (string, error) {
	if user == nil {
		return "", ErrNilUser
	}
	return user.SecurityStamp, nil
}

// SetTwoFactorEnabled flips the two-factor flag on the document.
func (s *Store) SetTwoFactorEnabled(user *model.User, enabled bool) error {
	if user == nil {
		return ErrNilUser
	}
	user.IsTwoFactorEnabled = enabled
	return nil
}

// TwoFactorEnabled reports the two-factor flag.
func (s *Store) TwoFactorEnabled(user *model.User) (bool, error) {
	if user == nil {
		return false, ErrNilUser
	}
	return user.IsTwoFactorEnabled, nil
}

// SetEmail replaces the user's email with a fresh unconfirmed
// confirmation holding the value and its lowercase normal form.
func (s *Store) SetEmail(user *model.User, email string) error {
	if user == nil {
		return ErrNilUser
	}
	if email == "" {
		return ErrEmptyEmail
	}
	user.Email = model.NewConfirmation(email)
	return nil
}

// Email returns the email value, empty when none is set.
func (s *Store) Email(user *model.User) (string, error) {
	if user == nil {
		return "", ErrNilUser
	}
	if user.Email == nil {
		return "", nil
	}
	return user.Email.Value, nil
}

// NormalizedEmail returns the lowercase normal form of the email, empty
// when none is set.
func (s *Store) NormalizedEmail(user *model.User) (string, error) {
	if user == nil {
		return "", ErrNilUser
	}
	if user.Email == nil {
		return "", nil
	}
	return user.Email.Normalized, nil
}

// SetNormalizedEmail overrides the stored normal form of the email. It
// fails with ErrNoEmail when no email is set.
func (s *Store) SetNormalizedEmail(user *model.User, normalized string) error {
	if user == nil {
		return ErrNilUser
	}
	if user.Email == nil {
		return ErrNoEmail
	}
	user.Email.Normalized = strings.ToLower(normalized)
	return nil
}

// EmailConfirmed reports whether the email is confirmed. An unset email
// reads as unconfirmed.
func (s *Store) EmailConfirmed(user *model.User) (bool, error) {
	if user == nil {
		return false, ErrNilUser
	}
	if user.Email == nil {
		return false, nil
	}
	return user.Email.Confirmed, nil
}

// SetEmailConfirmed marks the email confirmed or unconfirmed, stamping
// or clearing the confirmation time. It fails with ErrNoEmail when no
// email is set: confirming a missing value is a state error, not a
// validation error.
func (s *Store) SetEmailConfirmed(user *model.User, confirmed bool) error {
	if user == nil {
		return ErrNilUser
	}
	if user.Email == nil {
		return ErrNoEmail
	}
	user.Email.SetConfirmed(confirmed)
	return nil
}

// SetPhoneNumber replaces the user's phone number with a fresh
// unconfirmed confirmation.
func (s *Store) SetPhoneNumber(user *model.User, phoneNumber string) error {
	if user == nil {
		return ErrNilUser
	}
	if phoneNumber == "" {
		return ErrEmptyPhoneNumber
	}
	user.PhoneNumber = model.NewConfirmation(phoneNumber)
	return nil
}

// PhoneNumber returns the phone number value, empty when none is set.
func (s *Store) PhoneNumber(user *model.User) (string, error) {
	if user == nil {
		return "", ErrNilUser
	}
	if user.PhoneNumber == nil {
		return "", nil
	}
	return user.PhoneNumber.Value, nil
}

// PhoneNumberConfirmed reports whether the phone number is confirmed. An
// unset phone number reads as unconfirmed.
func (s *Store) PhoneNumberConfirmed(user *model.User) (bool, error) {
	if user == nil {
		return false, ErrNilUser
	}
	if user.PhoneNumber == nil {
		return false, nil
	}
	return user.PhoneNumber.Confirmed, nil
}

// SetPhoneNumberConfirmed marks the phone number confirmed or
// unconfirmed. It fails with ErrNoPhoneNumber when no phone number is
// set.
func (s *Store) SetPhoneNumberConfirmed(user *model.User, confirmed bool) error {
	if user == nil {
		return ErrNilUser
	}
	if user.PhoneNumber == nil {
		return ErrNoPhoneNumber
	}
	user.PhoneNumber.SetConfirmed(confirmed)
	return nil
}

// SetLockoutEndDate sets or clears the lockout expiry on the document.
func (s *Store) SetLockoutEndDate(user *model.User, end *time.Time) error {
	if user == nil {
		return ErrNilUser
	}
	user.LockoutEndDate = end
	return nil
}

// LockoutEndDate returns the lockout expiry, nil when no lockout is set.
func (s *Store) LockoutEndDate(user *model.User) (*time.Time, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	return user.LockoutEndDate, nil
}

// SetLockoutEnabled flips whether this user can be locked out at all.
func (s *Store) SetLockoutEnabled(user *model.User, enabled bool) error {
	if user == nil {
		return ErrNilUser
	}
	user.IsLockoutEnabled = enabled
	return nil
}

// LockoutEnabled reports whether this user can be locked out.
func (s *Store) LockoutEnabled(user *model.User) (bool, error) {
	if user == nil {
		return false, ErrNilUser
	}
	return user.IsLockoutEnabled, nil
}

// AccessFailedCount returns the consecutive failed sign-in count.
func (s *Store) AccessFailedCount(user *model.User) (int, error) {
	if user == nil {
		return 0, ErrNilUser
	}
	return user.AccessFailedCount, nil
}

// IncrementAccessFailedCount bumps the failed sign-in count and returns
// the new value.
func (s *Store) IncrementAccessFailedCount(user *model.User) (int, error) {
	if user == nil {
		return 0, ErrNilUser
	}
	user.AccessFailedCount++
	return user.AccessFailedCount, nil
}

// ResetAccessFailedCount zeroes the failed sign-in count.
func (s *Store) ResetAccessFailedCount(user *model.User) error {
	if user == nil {
		return ErrNilUser
	}
	user.AccessFailedCount = 0
	return nil
}
