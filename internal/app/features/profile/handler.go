// internal/app/features/profile/handler.go
package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/northbound-labs/esidentity/internal/app/system/auth"
	userstore "github.com/northbound-labs/esidentity/store/users"
)

type Handler struct {
	users  *userstore.Store
	logger *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

type profileResponse struct {
	ID             string   `json:"id"`
	UserName       string   `json:"userName"`
	Email          string   `json:"email,omitempty"`
	EmailConfirmed bool     `json:"emailConfirmed"`
	Roles          []string `json:"roles"`
}

// Show returns the signed-in user's profile and role memberships.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	user, err := h.users.FindByID(r.Context(), su.ID)
	if err != nil {
		h.logger.Error("profile lookup failed", zap.Error(err))
		http.Error(w, "profile unavailable", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// The account was deleted while the session was still live.
		http.Error(w, "account no longer exists", http.StatusGone)
		return
	}

	roles, err := h.users.Roles(r.Context(), user)
	if err != nil {
		h.logger.Error("role lookup failed", zap.Error(err))
		http.Error(w, "profile unavailable", http.StatusInternalServerError)
		return
	}

	resp := profileResponse{
		ID:       user.ID,
		UserName: user.UserName,
		Roles:    roles,
	}
	resp.Email, _ = h.users.Email(user)
	resp.EmailConfirmed, _ = h.users.EmailConfirmed(user)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ConfirmEmail marks the signed-in user's email as confirmed.
func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	user, err := h.users.FindByID(r.Context(), su.ID)
	if err != nil || user == nil {
		http.Error(w, "account no longer exists", http.StatusGone)
		return
	}

	if err := h.users.SetEmailConfirmed(user, true); err != nil {
		if errors.Is(err, userstore.ErrNoEmail) {
			http.Error(w, "no email on the account", http.StatusConflict)
			return
		}
		http.Error(w, "confirmation failed", http.StatusInternalServerError)
		return
	}
	if err := h.users.Update(r.Context(), user); err != nil {
		h.logger.Error("confirmation update failed", zap.Error(err))
		http.Error(w, "confirmation failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
