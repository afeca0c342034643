// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for the sample app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, and logging
// live in WAFFLE's CoreConfig.
type AppConfig struct {
	// Elasticsearch connection configuration
	ElasticURL       string // node URL (e.g. http://localhost:9200)
	ElasticIndex     string // base name the physical indices derive from
	ElasticShards    int    // shards per index
	ElasticReplicas  int    // replicas per index
	ElasticQuerySize int    // bound on unpaged result sets

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name for sessions
	SessionDomain string // cookie domain (blank means current host)

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks
	BaseURL string
}
