package model

// Claim is a (type, value) pair. Equality is structural on both fields;
// pairs are de-duplicated within an owning ClaimList but are not globally
// unique.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Equal reports whether both the type and the value match.
func (c Claim) Equal(other Claim) bool {
	return c.Type == other.Type && c.Value == other.Value
}

func (c Claim) String() string {
	return c.Type + ": " + c.Value
}

// ClaimList is an ordered claim collection with set semantics on the
// (type, value) pair. Insertion order is preserved for iteration.
type ClaimList []Claim

// Contains reports whether an identical (type, value) pair is present.
func (l ClaimList) Contains(c Claim) bool {
	for _, cur := range l {
		if cur.Equal(c) {
			return true
		}
	}
	return false
}

// FindByType returns the first claim with the given type, if any.
func (l ClaimList) FindByType(claimType string) (Claim, bool) {
	for _, cur := range l {
		if cur.Type == claimType {
			return cur, true
		}
	}
	return Claim{}, false
}

// Add appends the claim unless an identical pair already exists.
func (l *ClaimList) Add(c Claim) {
	if l.Contains(c) {
		return
	}
	*l = append(*l, c)
}

// Remove deletes every claim matching both type and value.
func (l *ClaimList) Remove(c Claim) {
	out := (*l)[:0]
	for _, cur := range *l {
		if !cur.Equal(c) {
			out = append(out, cur)
		}
	}
	*l = out
}

// RemoveType deletes every claim with the given type regardless of value.
func (l *ClaimList) RemoveType(claimType string) {
	out := (*l)[:0]
	for _, cur := range *l {
		if cur.Type != claimType {
			out = append(out, cur)
		}
	}
	*l = out
}
