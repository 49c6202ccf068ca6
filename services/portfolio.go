package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// portfolioReadOnlyFields are managed by the system for every kind.
var portfolioReadOnlyFields = []string{"id", "createdAt", "updatedAt", "deletedAt"}

// listPublic serves the Active rows of a kind through the cache.
func listPublic[T models.Entity](ctx context.Context, l *Lifecycle[T], cfg CacheConfig) ([]*T, error) {
	kind := string(l.Kind())
	return cache.Fetch(ctx, cfg.Store, cache.Key(kind, "public"), cfg.ttl(),
		[]string{cache.KindTag(kind)},
		func(ctx context.Context) ([]*T, error) {
			return l.List(ctx, models.ScopeActive)
		})
}

// getPublic reads one record outside the trash. The entry is tagged with the
// record's id so lifecycle changes to it drop the cached copy.
func getPublic[T models.Entity](ctx context.Context, l *Lifecycle[T], cfg CacheConfig, id uuid.UUID) (*T, error) {
	kind := string(l.Kind())
	return cache.Fetch(ctx, cfg.Store, cache.Key(kind, "id", id.String()), cfg.ttl(),
		[]string{cache.EntityTag(kind, id.String()), cache.KindTag(kind)},
		func(ctx context.Context) (*T, error) {
			return l.GetActive(ctx, id)
		})
}

func invalidatorOf(cfg CacheConfig) cache.Invalidator {
	if cfg.Store == nil {
		return nil
	}
	return cfg.Store
}
