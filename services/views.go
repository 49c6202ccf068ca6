package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type ViewStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	GetViews(ctx context.Context, id uuid.UUID) (int64, error)
	SetViews(ctx context.Context, id uuid.UUID, views int64) error
}

// ViewCounter counts reads of published posts. It knows nothing of sessions;
// the client sends at most one increment per post per browsing session.
//
// The single-statement increment never loses a count. When it fails the
// counter falls back to read-then-write, where two concurrent readers can
// both write n+1 and one view is lost. That imprecision is accepted.
//
// Only the post's own cache entries are cleared, so counts shown in cached
// listings may lag by up to the cache TTL.
type ViewCounter struct {
	store  ViewStore
	cache  cache.Invalidator
	logger zerolog.Logger
}

func NewViewCounter(store ViewStore, inv cache.Invalidator) *ViewCounter {
	return &ViewCounter{
		store:  store,
		cache:  inv,
		logger: log.With().Str("service", "views").Logger(),
	}
}

func (c *ViewCounter) Increment(ctx context.Context, id uuid.UUID) error {
	err := c.store.IncrementViews(ctx, id)
	if errs.IsNotFound(err) {
		return err
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("postId", id.String()).Msg("atomic increment failed, falling back to read-then-write")
		views, err := c.store.GetViews(ctx, id)
		if err != nil {
			return err
		}
		if err := c.store.SetViews(ctx, id, views+1); err != nil {
			return err
		}
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ViewCounter) invalidate(ctx context.Context, id uuid.UUID) {
	if c.cache == nil {
		return
	}
	post, err := c.store.FindByID(ctx, id)
	if err != nil {
		c.logger.Warn().Err(err).Str("postId", id.String()).Msg("cannot resolve slug, cached page keeps its view count")
		return
	}
	tags := []string{cache.BlogSlugTag(post.Slug)}
	if err := c.cache.Invalidate(ctx, tags...); err != nil {
		c.logger.Error().Err(err).Strs("tags", tags).Msg("cache invalidation failed")
	}
}
