// Package esindex creates the backing indices with the expected shard,
// replica, and mapping settings before any store operation runs.
package esindex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"

	"github.com/northbound-labs/esidentity/store"
)

/*
Each Ensure* call is idempotent: an existing index is reused, and a
concurrent creator winning the race is treated as success. Problems are
aggregated so a misconfigured cluster is visible in one error and store
construction can fail fast.
*/

// EnsureAll ensures the user, role, and user-role indices for the given
// options. It is called once per store construction; a genuine creation
// failure is fatal to the caller.
func EnsureAll(ctx context.Context, client *elastic.Client, opts store.Options) error {
	var problems []string

	if err := EnsureUsers(ctx, client, opts); err != nil {
		problems = append(problems, opts.UsersIndex()+": "+err.Error())
	}
	if err := EnsureRoles(ctx, client, opts); err != nil {
		problems = append(problems, opts.RolesIndex()+": "+err.Error())
	}
	if err := EnsureUserRoles(ctx, client, opts); err != nil {
		problems = append(problems, opts.UserRolesIndex()+": "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// EnsureUsers ensures the user index.
func EnsureUsers(ctx context.Context, client *elastic.Client, opts store.Options) error {
	return ensure(ctx, client, opts.UsersIndex(), indexBody(opts.Shards, opts.Replicas, UserProperties()))
}

// EnsureRoles ensures the role index.
func EnsureRoles(ctx context.Context, client *elastic.Client, opts store.Options) error {
	return ensure(ctx, client, opts.RolesIndex(), indexBody(opts.Shards, opts.Replicas, RoleProperties()))
}

// EnsureUserRoles ensures the user-role link index.
func EnsureUserRoles(ctx context.Context, client *elastic.Client, opts store.Options) error {
	return ensure(ctx, client, opts.UserRolesIndex(), indexBody(opts.Shards, opts.Replicas, UserRoleProperties()))
}

func ensure(ctx context.Context, client *elastic.Client, name string, body map[string]interface{}) error {
	start := time.Now()

	exists, err := client.IndexExists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("index exists check: %w", err)
	}
	if exists {
		zap.L().Info("reusing existing index",
			zap.String("index", name),
			zap.String("took", time.Since(start).String()))
		return nil
	}

	res, err := client.CreateIndex(name).BodyJson(body).Do(ctx)
	if err != nil {
		if isAlreadyExists(err) {
			// Another store instance won the creation race.
			zap.L().Info("index created concurrently",
				zap.String("index", name),
				zap.String("took", time.Since(start).String()))
			return nil
		}
		zap.L().Warn("index ensure failed",
			zap.String("index", name),
			zap.Error(err))
		return fmt.Errorf("create index: %w", err)
	}
	if !res.Acknowledged {
		zap.L().Warn("index create not acknowledged", zap.String("index", name))
	}

	zap.L().Info("index ensured",
		zap.String("index", name),
		zap.String("took", time.Since(start).String()))
	return nil
}

func isAlreadyExists(err error) bool {
	var ee *elastic.Error
	if errors.As(err, &ee) && ee.Details != nil {
		return ee.Details.Type == "resource_already_exists_exception"
	}
	return strings.Contains(err.Error(), "resource_already_exists_exception")
}
