// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"

	"github.com/northbound-labs/esidentity/internal/app/system/auth"
)

// Routes returns the router for the signed-in user's profile.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.Show)
	r.Post("/email/confirm", h.ConfirmEmail)
	return r
}
