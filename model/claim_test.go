package model

import "testing"

func TestClaimListAdd(t *testing.T) {
	var l ClaimList
	l.Add(Claim{Type: "color", Value: "blue"})
	l.Add(Claim{Type: "color", Value: "blue"})
	l.Add(Claim{Type: "color", Value: "red"})

	if len(l) != 2 {
		t.Fatalf("got %d claims, want 2: %v", len(l), l)
	}
	if !l.Contains(Claim{Type: "color", Value: "blue"}) {
		t.Errorf("missing blue claim")
	}
	if !l.Contains(Claim{Type: "color", Value: "red"}) {
		t.Errorf("missing red claim")
	}
}

func TestClaimListRemove(t *testing.T) {
	l := ClaimList{
		{Type: "color", Value: "blue"},
		{Type: "color", Value: "red"},
		{Type: "size", Value: "large"},
	}

	l.Remove(Claim{Type: "color", Value: "blue"})
	if len(l) != 2 || l.Contains(Claim{Type: "color", Value: "blue"}) {
		t.Fatalf("remove by pair failed: %v", l)
	}

	// Removing a pair that is not present changes nothing.
	l.Remove(Claim{Type: "color", Value: "green"})
	if len(l) != 2 {
		t.Fatalf("removing an absent pair changed the list: %v", l)
	}
}

func TestClaimListRemoveType(t *testing.T) {
	l := ClaimList{
		{Type: "color", Value: "blue"},
		{Type: "color", Value: "red"},
		{Type: "size", Value: "large"},
	}
	l.RemoveType("color")
	if len(l) != 1 || l[0].Type != "size" {
		t.Fatalf("remove by type failed: %v", l)
	}
}

func TestClaimListFindByType(t *testing.T) {
	l := ClaimList{
		{Type: "color", Value: "blue"},
		{Type: "color", Value: "red"},
	}
	c, ok := l.FindByType("color")
	if !ok || c.Value != "blue" {
		t.Errorf("FindByType returned (%v, %v), want first color claim", c, ok)
	}
	if _, ok := l.FindByType("size"); ok {
		t.Errorf("FindByType found a claim type that is not present")
	}
}
