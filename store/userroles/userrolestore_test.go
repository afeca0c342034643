package userrolestore

import (
	"context"
	"testing"

	"github.com/northbound-labs/esidentity/internal/elastictest"
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

func TestLinkAndExists(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in, err := s.Exists(ctx, "u1", "admins")
	if err != nil {
		t.Fatalf("Exists before link: %v", err)
	}
	if in {
		t.Fatal("pair reported present before linking")
	}

	if err := s.Link(ctx, "u1", "admins"); err != nil {
		t.Fatalf("Link: %v", err)
	}

	in, err = s.Exists(ctx, "u1", "admins")
	if err != nil {
		t.Fatalf("Exists after link: %v", err)
	}
	if !in {
		t.Fatal("pair not visible immediately after linking")
	}
}

func TestUnlinkRemovesOnlyMatchingPair(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Link(ctx, "u1", "admins"); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if err := s.Link(ctx, "u1", "editors"); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if err := s.Link(ctx, "u2", "admins"); err != nil {
		t.Fatalf("Link: %v", err)
	}

	if err := s.Unlink(ctx, "u1", "admins"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	if in, _ := s.Exists(ctx, "u1", "admins"); in {
		t.Error("unlinked pair still present")
	}
	if in, _ := s.Exists(ctx, "u1", "editors"); !in {
		t.Error("unrelated role of the same user was removed")
	}
	if in, _ := s.Exists(ctx, "u2", "admins"); !in {
		t.Error("same role of another user was removed")
	}
}

func TestUnlinkAbsentPairIsNoOp(t *testing.T) {
	s := newStore(t)
	if err := s.Unlink(context.Background(), "u1", "admins"); err != nil {
		t.Fatalf("Unlink of absent pair: %v", err)
	}
}

func TestRolesOf(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, role := range []string{"admins", "editors", "admins"} {
		if err := s.Link(ctx, "u1", role); err != nil {
			t.Fatalf("Link: %v", err)
		}
	}
	if err := s.Link(ctx, "u2", "viewers"); err != nil {
		t.Fatalf("Link: %v", err)
	}

	names, err := s.RolesOf(ctx, "u1")
	if err != nil {
		t.Fatalf("RolesOf: %v", err)
	}
	want := []string{"admins", "editors"}
	if len(names) != len(want) {
		t.Fatalf("RolesOf = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("RolesOf[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestUsersIn(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u1"} {
		if err := s.Link(ctx, id, "admins"); err != nil {
			t.Fatalf("Link: %v", err)
		}
	}

	ids, err := s.UsersIn(ctx, "admins")
	if err != nil {
		t.Fatalf("UsersIn: %v", err)
	}
	if len(ids) != 2 || ids[0] != "u1" || ids[1] != "u2" {
		t.Fatalf("UsersIn = %v, want [u1 u2]", ids)
	}
}

func TestValidation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Link(ctx, "", "admins"); err != ErrEmptyUserID {
		t.Errorf("Link with empty user id: %v", err)
	}
	if err := s.Link(ctx, "u1", ""); err != ErrEmptyRoleName {
		t.Errorf("Link with empty role name: %v", err)
	}
	if _, err := s.RolesOf(ctx, ""); err != ErrEmptyUserID {
		t.Errorf("RolesOf with empty user id: %v", err)
	}
	if _, err := s.UsersIn(ctx, ""); err != ErrEmptyRoleName {
		t.Errorf("UsersIn with empty role name: %v", err)
	}
}
