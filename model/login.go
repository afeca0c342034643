package model

// Login records one external login of a user. Identity is the
// (LoginProvider, ProviderKey) pair; ProviderDisplayName is descriptive
// only and takes no part in equality.
type Login struct {
	LoginProvider       string `json:"loginProvider"`
	ProviderKey         string `json:"providerKey"`
	ProviderDisplayName string `json:"providerDisplayName,omitempty"`
}

// Equal reports whether the provider and key match; display names are
// ignored.
func (l Login) Equal(other Login) bool {
	return l.LoginProvider == other.LoginProvider && l.ProviderKey == other.ProviderKey
}

// LoginList is an ordered login collection unique on (provider, key).
type LoginList []Login

// Contains reports whether a login with the same provider and key exists.
func (l LoginList) Contains(login Login) bool {
	for _, cur := range l {
		if cur.Equal(login) {
			return true
		}
	}
	return false
}

// Add appends the login unless the (provider, key) pair already exists.
// Re-adding an existing pair is a no-op, not an error.
func (l *LoginList) Add(login Login) {
	if l.Contains(login) {
		return
	}
	*l = append(*l, login)
}

// Remove deletes the login with the given provider and key, if present.
func (l *LoginList) Remove(provider, key string) {
	out := (*l)[:0]
	for _, cur := range *l {
		if cur.LoginProvider != provider || cur.ProviderKey != key {
			out = append(out, cur)
		}
	}
	*l = out
}
