// internal/app/features/register/handler.go
package register

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/northbound-labs/esidentity/model"
	userstore "github.com/northbound-labs/esidentity/store/users"
)

type Handler struct {
	users     *userstore.Store
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		users:     users,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

type registerRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user with a hashed password and a fresh security
// stamp.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userName := strings.TrimSpace(h.sanitizer.Sanitize(req.UserName))
	if userName == "" || req.Password == "" {
		http.Error(w, "user name and password are required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	user := model.NewUser(userName)
	user.PasswordHash = string(hash)
	user.SecurityStamp = uuid.NewString()
	user.IsLockoutEnabled = true
	if req.Email != "" {
		if err := h.users.SetEmail(user, req.Email); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, userstore.ErrDuplicateUserName) {
			http.Error(w, "user name is taken", http.StatusConflict)
			return
		}
		h.logger.Error("user create failed", zap.Error(err))
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"id":       user.ID,
		"userName": user.UserName,
	})
}
