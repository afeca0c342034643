// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/northbound-labs/esidentity/internal/app/system/auth"
)

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Logout clears the session and sends the caller home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.logger.Error("session clear failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
