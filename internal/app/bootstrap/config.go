// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the sample app.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: elastic_url, session_name, etc.
//   - Environment variables: ESIDENTITY_ELASTIC_URL, ESIDENTITY_SESSION_NAME, etc.
//   - Command-line flags: --elastic_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "elastic_url", Default: "http://localhost:9200", Desc: "Elasticsearch node URL"},
	{Name: "elastic_index", Default: "es-identity", Desc: "Base name for the identity indices"},
	{Name: "elastic_shards", Default: 1, Desc: "Shards per identity index"},
	{Name: "elastic_replicas", Default: 0, Desc: "Replicas per identity index"},
	{Name: "elastic_query_size", Default: 1000, Desc: "Upper bound on unpaged query results"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "esidentity-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Base URL for OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ESIDENTITY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		ElasticURL:       appValues.String("elastic_url"),
		ElasticIndex:     appValues.String("elastic_index"),
		ElasticShards:    appValues.Int("elastic_shards"),
		ElasticReplicas:  appValues.Int("elastic_replicas"),
		ElasticQuerySize: appValues.Int("elastic_query_size"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		BaseURL: appValues.String("base_url"),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.ElasticURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		logger.Error("invalid Elasticsearch URL", zap.String("elastic_url", appCfg.ElasticURL))
		return fmt.Errorf("invalid Elasticsearch URL: %q", appCfg.ElasticURL)
	}
	if appCfg.ElasticIndex == "" {
		return fmt.Errorf("elastic_index must not be empty")
	}
	if appCfg.ElasticShards < 1 {
		return fmt.Errorf("elastic_shards must be at least 1")
	}
	return nil
}
