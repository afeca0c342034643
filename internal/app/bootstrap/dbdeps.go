// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/olivere/elastic/v7"

	rolestore "github.com/northbound-labs/esidentity/store/roles"
	userstore "github.com/northbound-labs/esidentity/store/users"
)

// DBDeps holds back-end dependencies for the app.
type DBDeps struct {
	ElasticClient *elastic.Client
	Users         *userstore.Store
	Roles         *rolestore.Store
}
