package model

import (
	"strings"
	"time"
)

// Confirmation is an embedded value-with-confirmation-state, used for a
// user's email and phone number. A nil *Confirmation on the user means the
// value was never set, which is distinct from an empty string.
type Confirmation struct {
	Value       string     `json:"value"`
	Normalized  string     `json:"normalized"`
	Confirmed   bool       `json:"confirmed"`
	ConfirmedOn *time.Time `json:"confirmedOn,omitempty"`
}

// NewConfirmation returns an unconfirmed value with its lowercased
// normalized form.
func NewConfirmation(value string) *Confirmation {
	return &Confirmation{
		Value:      value,
		Normalized: strings.ToLower(value),
	}
}

// SetConfirmed flips the confirmed flag, stamping ConfirmedOn when
// confirming and clearing it when unconfirming.
func (c *Confirmation) SetConfirmed(confirmed bool) {
	c.Confirmed = confirmed
	if confirmed {
		now := time.Now().UTC()
		c.ConfirmedOn = &now
	} else {
		c.ConfirmedOn = nil
	}
}
