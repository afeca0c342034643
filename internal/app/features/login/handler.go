// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/northbound-labs/esidentity/internal/app/system/auth"
	"github.com/northbound-labs/esidentity/model"
	userstore "github.com/northbound-labs/esidentity/store/users"
)

// maxFailedAttempts locks the account when reached, for lockoutWindow.
const (
	maxFailedAttempts = 5
	lockoutWindow     = 15 * time.Minute
)

type Handler struct {
	users  *userstore.Store
	oauth  *oauth2.Config
	logger *zap.Logger
}

func NewHandler(users *userstore.Store, oauth *oauth2.Config, logger *zap.Logger) *Handler {
	return &Handler{users: users, oauth: oauth, logger: logger}
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Login verifies the password and starts a session. Failed attempts feed
// the lockout counter; enough of them in a row lock the account for
// lockoutWindow.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserName == "" || req.Password == "" {
		http.Error(w, "user name and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.FindByName(r.Context(), req.UserName)
	if err != nil {
		h.logger.Error("login lookup failed", zap.Error(err))
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	if user == nil || !user.HasPassword() {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if locked(user) {
		http.Error(w, "account is locked", http.StatusLocked)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.recordFailure(w, r, user)
		return
	}

	_ = h.users.ResetAccessFailedCount(user)
	_ = h.users.SetLockoutEndDate(user, nil)
	if err := h.users.Update(r.Context(), user); err != nil {
		h.logger.Error("login state update failed", zap.Error(err))
	}

	if err := auth.SignIn(w, r, user.ID, user.UserName); err != nil {
		h.logger.Error("session save failed", zap.Error(err))
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"id":       user.ID,
		"userName": user.UserName,
	})
}

func locked(user *model.User) bool {
	return user.IsLockoutEnabled &&
		user.LockoutEndDate != nil &&
		user.LockoutEndDate.After(time.Now().UTC())
}

func (h *Handler) recordFailure(w http.ResponseWriter, r *http.Request, user *model.User) {
	count, _ := h.users.IncrementAccessFailedCount(user)
	if user.IsLockoutEnabled && count >= maxFailedAttempts {
		until := time.Now().UTC().Add(lockoutWindow)
		_ = h.users.SetLockoutEndDate(user, &until)
		_ = h.users.ResetAccessFailedCount(user)
		h.logger.Info("account locked after repeated failures",
			zap.String("user_id", user.ID),
			zap.Time("until", until))
	}
	if err := h.users.Update(r.Context(), user); err != nil {
		h.logger.Error("failure count update failed", zap.Error(err))
	}
	http.Error(w, "invalid credentials", http.StatusUnauthorized)
}
