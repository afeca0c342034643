// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	loginfeature "github.com/northbound-labs/esidentity/internal/app/features/login"
	logoutfeature "github.com/northbound-labs/esidentity/internal/app/features/logout"
	profilefeature "github.com/northbound-labs/esidentity/internal/app/features/profile"
	registerfeature "github.com/northbound-labs/esidentity/internal/app/features/register"
	"github.com/northbound-labs/esidentity/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for the sample
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and any Startup hooks have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		RedirectURL:  appCfg.BaseURL + "/login/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	r := chi.NewRouter()

	// Global auth middleware: loads the session user into context so the
	// current user is available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	registerHandler := registerfeature.NewHandler(deps.Users, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	loginHandler := loginfeature.NewHandler(deps.Users, oauthCfg, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	profileHandler := profilefeature.NewHandler(deps.Users, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler))

	return r, nil
}
