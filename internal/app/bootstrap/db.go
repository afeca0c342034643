// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"

	"github.com/northbound-labs/esidentity/esindex"
	"github.com/northbound-labs/esidentity/store"
	rolestore "github.com/northbound-labs/esidentity/store/roles"
	userstore "github.com/northbound-labs/esidentity/store/users"
)

// ConnectDB dials the Elasticsearch node and builds the identity stores.
// Store construction ensures the backing indices, so a cluster that
// cannot hold them fails startup here rather than on first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(appCfg.ElasticURL),
		elastic.SetSniff(false),
	)
	if err != nil {
		logger.Error("elasticsearch connect failed", zap.Error(err))
		return DBDeps{}, err
	}

	opts := store.Options{
		Index:     appCfg.ElasticIndex,
		QuerySize: appCfg.ElasticQuerySize,
		Shards:    appCfg.ElasticShards,
		Replicas:  appCfg.ElasticReplicas,
	}

	users, err := userstore.New(ctx, client, opts)
	if err != nil {
		return DBDeps{}, err
	}
	roles, err := rolestore.New(ctx, client, opts)
	if err != nil {
		return DBDeps{}, err
	}

	logger.Info("elasticsearch connected",
		zap.String("url", appCfg.ElasticURL),
		zap.String("index", appCfg.ElasticIndex))

	return DBDeps{ElasticClient: client, Users: users, Roles: roles}, nil
}

// EnsureSchema re-checks the indices on startup. The store constructors
// already ensured them; running it again is idempotent and catches a
// cluster that lost an index between connect and serve.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	opts := store.Options{
		Index:     appCfg.ElasticIndex,
		QuerySize: appCfg.ElasticQuerySize,
		Shards:    appCfg.ElasticShards,
		Replicas:  appCfg.ElasticReplicas,
	}.WithDefaults()
	return esindex.EnsureAll(ctx, deps.ElasticClient, opts)
}
