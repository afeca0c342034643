// internal/app/features/login/google.go
package login

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/northbound-labs/esidentity/internal/app/system/auth"
	"github.com/northbound-labs/esidentity/model"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleStart redirects to Google's consent page.
func (h *Handler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil || h.oauth.ClientID == "" {
		http.Error(w, "google sign-in is not configured", http.StatusNotImplemented)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   300,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusSeeOther)
}

type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleCallback exchanges the code, resolves the external login to a
// user, creating one on first sign-in, and starts a session.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil || h.oauth.ClientID == "" {
		http.Error(w, "google sign-in is not configured", http.StatusNotImplemented)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Error("oauth exchange failed", zap.Error(err))
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	profile, err := fetchGoogleProfile(r, h.oauth, token)
	if err != nil {
		h.logger.Error("userinfo fetch failed", zap.Error(err))
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}
	if profile.ID == "" {
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	user, err := h.users.FindByLogin(r.Context(), "google", profile.ID)
	if err != nil {
		h.logger.Error("login lookup failed", zap.Error(err))
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}

	if user == nil {
		name := profile.Name
		if name == "" {
			name = profile.Email
		}
		user = model.NewUser(name)
		user.SecurityStamp = uuid.NewString()
		if profile.Email != "" {
			_ = h.users.SetEmail(user, profile.Email)
			_ = h.users.SetEmailConfirmed(user, true)
		}
		if err := h.users.AddLogin(user, model.Login{
			LoginProvider:       "google",
			ProviderKey:         profile.ID,
			ProviderDisplayName: "Google",
		}); err != nil {
			http.Error(w, "sign-in failed", http.StatusInternalServerError)
			return
		}
		if err := h.users.Create(r.Context(), user); err != nil {
			h.logger.Error("first sign-in create failed", zap.Error(err))
			http.Error(w, "sign-in failed", http.StatusInternalServerError)
			return
		}
	}

	if err := auth.SignIn(w, r, user.ID, user.UserName); err != nil {
		h.logger.Error("session save failed", zap.Error(err))
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func fetchGoogleProfile(r *http.Request, cfg *oauth2.Config, token *oauth2.Token) (googleProfile, error) {
	var profile googleProfile

	resp, err := cfg.Client(r.Context(), token).Get(googleUserInfoURL)
	if err != nil {
		return profile, err
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&profile)
	return profile, err
}
