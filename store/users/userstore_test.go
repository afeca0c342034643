package userstore

import (
	"context"
	"errors"
	"testing"

	"github.com/northbound-labs/esidentity/internal/elastictest"
	"github.com/northbound-labs/esidentity/model"
	"github.com/northbound-labs/esidentity/store"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	_, client := elastictest.New(t)
	s, err := New(context.Background(), client, store.Options{Index: "idtest"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s *Store, userName string) *model.User {
	t.Helper()
	u := model.NewUser(userName)
	if err := s.Create(context.Background(), u); err != nil {
		t.Fatalf("Create(%q): %v", userName, err)
	}
	return u
}

func TestCreateAndFindByID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := mustCreate(t, s, "Alice Smith")

	got, err := s.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("created user not visible by id")
	}
	if got.UserName != "Alice Smith" || got.Normalized != "alice-smith" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Claims == nil || got.Logins == nil {
		t.Errorf("lists must come back non-nil: %+v", got)
	}
}

func TestCreateAssignsBlankID(t *testing.T) {
	s := newStore(t)
	u := &model.User{UserName: "Bob"}
	if err := s.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("Create left the id blank")
	}
	if u.Normalized != "bob" {
		t.Errorf("Normalized = %q", u.Normalized)
	}
	if u.CreatedOn.IsZero() {
		t.Error("CreatedOn not stamped")
	}
}

func TestCreateRejectsDuplicateUserName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	mustCreate(t, s, "Alice Smith")

	// Different display spelling, same slug: still a collision.
	err := s.Create(ctx, model.NewUser("ALICE  SMITH"))
	if !errors.Is(err, ErrDuplicateUserName) {
		t.Fatalf("duplicate create: %v, want ErrDuplicateUserName", err)
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := mustCreate(t, s, "Alice")

	again := model.NewUser("Someone Else")
	again.ID = u.ID
	if err := s.Create(ctx, again); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("duplicate id create: %v, want ErrDuplicateID", err)
	}
}

func TestFindByName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	mustCreate(t, s, "Alice Smith")

	for _, name := range []string{"Alice Smith", "alice smith", "ALICE-SMITH"} {
		got, err := s.FindByName(ctx, name)
		if err != nil {
			t.Fatalf("FindByName(%q): %v", name, err)
		}
		if got == nil {
			t.Errorf("FindByName(%q) missed the user", name)
		}
	}

	got, err := s.FindByName(ctx, "nobody")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if got != nil {
		t.Errorf("FindByName found a user that does not exist: %+v", got)
	}
}

func TestFindByEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := mustCreate(t, s, "Alice")
	if err := s.SetEmail(u, "Alice@Example.COM"); err != nil {
		t.Fatalf("SetEmail: %v", err)
	}
	if err := s.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByEmail(ctx, "ALICE@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("FindByEmail = %+v, want user %s", got, u.ID)
	}

	got, err = s.FindByEmail(ctx, "other@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got != nil {
		t.Errorf("FindByEmail matched a missing address: %+v", got)
	}
}

func TestFindByLoginMatchesWithinOneLogin(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := mustCreate(t, s, "Alice")
	if err := s.AddLogin(u, model.Login{LoginProvider: "google", ProviderKey: "g-key"}); err != nil {
		t.Fatalf("AddLogin: %v", err)
	}
	if err := s.AddLogin(u, model.Login{LoginProvider: "github", ProviderKey: "h-key"}); err != nil {
		t.Fatalf("AddLogin: %v", err)
	}
	if err := s.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByLogin(ctx, "google", "g-key")
	if err != nil {
		t.Fatalf("FindByLogin: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("FindByLogin = %+v, want user %s", got, u.ID)
	}

	// Provider of one login and key of another must not match: the pair
	// has to co-occur within a single login.
	got, err = s.FindByLogin(ctx, "google", "h-key")
	if err != nil {
		t.Fatalf("FindByLogin: %v", err)
	}
	if got != nil {
		t.Fatalf("cross-login match leaked through: %+v", got)
	}
}

func TestAddLoginIsIdempotent(t *testing.T) {
	s := newStore(t)
	u := mustCreate(t, s, "Alice")

	login := model.Login{LoginProvider: "google", ProviderKey: "g-key"}
	if err := s.AddLogin(u, login); err != nil {
		t.Fatalf("AddLogin: %v", err)
	}
	if err := s.AddLogin(u, login); err != nil {
		t.Fatalf("second AddLogin: %v", err)
	}
	if len(u.Logins) != 1 {
		t.Fatalf("got %d logins, want 1: %v", len(u.Logins), u.Logins)
	}

	if err := s.RemoveLogin(u, "google", "g-key"); err != nil {
		t.Fatalf("RemoveLogin: %v", err)
	}
	if len(u.Logins) != 0 {
		t.Fatalf("login not removed: %v", u.Logins)
	}
}

func TestAddClaimsReplacesByType(t *testing.T) {
	s := newStore(t)
	u := mustCreate(t, s, "Alice")

	if err := s.AddClaims(u, []model.Claim{{Type: "color", Value: "blue"}}); err != nil {
		t.Fatalf("AddClaims: %v", err)
	}
	if err := s.AddClaims(u, []model.Claim{{Type: "color", Value: "red"}, {Type: "size", Value: "large"}}); err != nil {
		t.Fatalf("AddClaims: %v", err)
	}

	if len(u.Claims) != 2 {
		t.Fatalf("got %d claims, want 2: %v", len(u.Claims), u.Claims)
	}
	if u.Claims.Contains(model.Claim{Type: "color", Value: "blue"}) {
		t.Error("old claim of the same type survived")
	}
	if !u.Claims.Contains(model.Claim{Type: "color", Value: "red"}) {
		t.Error("replacement claim missing")
	}
}

func TestReplaceClaim(t *testing.T) {
	s := newStore(t)
	u := mustCreate(t, s, "Alice")

	u.Claims.Add(model.Claim{Type: "color", Value: "blue"})
	err := s.ReplaceClaim(u, model.Claim{Type: "color", Value: "blue"}, model.Claim{Type: "color", Value: "red"})
	if err != nil {
		t.Fatalf("ReplaceClaim: %v", err)
	}
	if len(u.Claims) != 1 || u.Claims[0].Value != "red" {
		t.Fatalf("ReplaceClaim result: %v", u.Claims)
	}
}

func TestUsersForClaim(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, "Alice")
	_ = s.AddClaims(a, []model.Claim{{Type: "color", Value: "blue"}, {Type: "size", Value: "large"}})
	if err := s.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	b := mustCreate(t, s, "Bob")
	_ = s.AddClaims(b, []model.Claim{{Type: "color", Value: "red"}})
	if err := s.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}

	users, err := s.UsersForClaim(ctx, model.Claim{Type: "color", Value: "blue"})
	if err != nil {
		t.Fatalf("UsersForClaim: %v", err)
	}
	if len(users) != 1 || users[0].ID != a.ID {
		t.Fatalf("UsersForClaim = %v, want only %s", users, a.ID)
	}

	// Type of one claim with the value of another must not match.
	users, err = s.UsersForClaim(ctx, model.Claim{Type: "size", Value: "blue"})
	if err != nil {
		t.Fatalf("UsersForClaim: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("cross-claim match leaked through: %v", users)
	}
}

func TestRoleMembership(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := mustCreate(t, s, "Alice")

	in, err := s.IsInRole(ctx, u, "Site Admins")
	if err != nil {
		t.Fatalf("IsInRole: %v", err)
	}
	if in {
		t.Fatal("membership reported before adding")
	}

	if err := s.AddToRole(ctx, u, "Site Admins"); err != nil {
		t.Fatalf("AddToRole: %v", err)
	}
	// Adding again is a no-op, not a duplicate link.
	if err := s.AddToRole(ctx, u, "site admins"); err != nil {
		t.Fatalf("second AddToRole: %v", err)
	}

	in, err = s.IsInRole(ctx, u, "SITE ADMINS")
	if err != nil {
		t.Fatalf("IsInRole: %v", err)
	}
	if !in {
		t.Fatal("membership not visible after adding")
	}

	roles, err := s.Roles(ctx, u)
	if err != nil {
		t.Fatalf("Roles: %v", err)
	}
	if len(roles) != 1 || roles[0] != "site-admins" {
		t.Fatalf("Roles = %v, want [site-admins]", roles)
	}

	if err := s.RemoveFromRole(ctx, u, "Site Admins"); err != nil {
		t.Fatalf("RemoveFromRole: %v", err)
	}
	if in, _ := s.IsInRole(ctx, u, "Site Admins"); in {
		t.Fatal("membership survived removal")
	}
}

func TestUsersInRoleSkipsDanglingLinks(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, "Alice")
	b := mustCreate(t, s, "Bob")
	for _, u := range []*model.User{a, b} {
		if err := s.AddToRole(ctx, u, "Admins"); err != nil {
			t.Fatalf("AddToRole: %v", err)
		}
	}

	users, err := s.UsersInRole(ctx, "Admins")
	if err != nil {
		t.Fatalf("UsersInRole: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}

	// Deleting a user leaves its link behind; the reader must skip it.
	if err := s.Delete(ctx, a); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	users, err = s.UsersInRole(ctx, "Admins")
	if err != nil {
		t.Fatalf("UsersInRole after delete: %v", err)
	}
	if len(users) != 1 || users[0].ID != b.ID {
		t.Fatalf("UsersInRole = %v, want only %s", users, b.ID)
	}
}

func TestUsersInRoleEmpty(t *testing.T) {
	s := newStore(t)
	users, err := s.UsersInRole(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("UsersInRole: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("UsersInRole of an unused role = %v", users)
	}
}

func TestEmailConfirmation(t *testing.T) {
	s := newStore(t)
	u := mustCreate(t, s, "Alice")

	// Confirming before an email is set is a state error.
	if err := s.SetEmailConfirmed(u, true); !errors.Is(err, ErrNoEmail) {
		t.Fatalf("SetEmailConfirmed without email: %v, want ErrNoEmail", err)
	}

	if err := s.SetEmail(u, "Alice@Example.COM"); err != nil {
		t.Fatalf("SetEmail: %v", err)
	}
	if norm, _ := s.NormalizedEmail(u); norm != "alice@example.com" {
		t.Errorf("NormalizedEmail = %q", norm)
	}
	if confirmed, _ := s.EmailConfirmed(u); confirmed {
		t.Fatal("fresh email must start unconfirmed")
	}

	if err := s.SetEmailConfirmed(u, true); err != nil {
		t.Fatalf("SetEmailConfirmed: %v", err)
	}
	if confirmed, _ := s.EmailConfirmed(u); !confirmed {
		t.Fatal("confirmation flag not set")
	}
	if u.Email.ConfirmedOn == nil {
		t.Fatal("confirmation time not stamped")
	}

	// Replacing the email resets confirmation.
	if err := s.SetEmail(u, "new@example.com"); err != nil {
		t.Fatalf("SetEmail: %v", err)
	}
	if confirmed, _ := s.EmailConfirmed(u); confirmed {
		t.Fatal("replacing the email must reset confirmation")
	}
}

func TestPhoneConfirmation(t *testing.T) {
	s := newStore(t)
	u := mustCreate(t, s, "Alice")

	if err := s.SetPhoneNumberConfirmed(u, true); !errors.Is(err, ErrNoPhoneNumber) {
		t.Fatalf("SetPhoneNumberConfirmed without number: %v, want ErrNoPhoneNumber", err)
	}

	if err := s.SetPhoneNumber(u, "+1 555 0100"); err != nil {
		t.Fatalf("SetPhoneNumber: %v", err)
	}
	if err := s.SetPhoneNumberConfirmed(u, true); err != nil {
		t.Fatalf("SetPhoneNumberConfirmed: %v", err)
	}
	if confirmed, _ := s.PhoneNumberConfirmed(u); !confirmed {
		t.Fatal("confirmation flag not set")
	}
}

func TestLockoutCounters(t *testing.T) {
	s := newStore(t)
	u := mustCreate(t, s, "Alice")

	if n, _ := s.AccessFailedCount(u); n != 0 {
		t.Fatalf("fresh count = %d", n)
	}
	for i := 1; i <= 3; i++ {
		n, err := s.IncrementAccessFailedCount(u)
		if err != nil {
			t.Fatalf("IncrementAccessFailedCount: %v", err)
		}
		if n != i {
			t.Fatalf("count after %d failures = %d", i, n)
		}
	}
	if err := s.ResetAccessFailedCount(u); err != nil {
		t.Fatalf("ResetAccessFailedCount: %v", err)
	}
	if n, _ := s.AccessFailedCount(u); n != 0 {
		t.Fatalf("count after reset = %d", n)
	}
}

func TestDeleteThenFind(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := mustCreate(t, s, "Alice")
	if err := s.Delete(ctx, u); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := s.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted user still visible: %+v", got)
	}

	got, err = s.FindByName(ctx, "Alice")
	if err != nil {
		t.Fatalf("FindByName after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted user still findable by name: %+v", got)
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, u); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Create(ctx, model.NewUser("Alice")); !errors.Is(err, context.Canceled) {
		t.Errorf("Create on cancelled context: %v", err)
	}
	if _, err := s.FindByID(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("FindByID on cancelled context: %v", err)
	}
	if _, err := s.FindByLogin(ctx, "google", "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("FindByLogin on cancelled context: %v", err)
	}
}

func TestValidation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, nil); !errors.Is(err, ErrNilUser) {
		t.Errorf("Create(nil): %v", err)
	}
	if err := s.Create(ctx, &model.User{}); !errors.Is(err, ErrEmptyUserName) {
		t.Errorf("Create without name: %v", err)
	}
	if _, err := s.FindByID(ctx, ""); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("FindByID(\"\"): %v", err)
	}
	if _, err := s.FindByLogin(ctx, "", "k"); !errors.Is(err, ErrEmptyLoginProvider) {
		t.Errorf("FindByLogin without provider: %v", err)
	}
	if _, err := s.FindByLogin(ctx, "google", ""); !errors.Is(err, ErrEmptyProviderKey) {
		t.Errorf("FindByLogin without key: %v", err)
	}
	if err := s.AddToRole(ctx, nil, "r"); !errors.Is(err, ErrNilUser) {
		t.Errorf("AddToRole(nil): %v", err)
	}
}
