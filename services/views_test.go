package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

func TestViewCounterIncrements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := createPost(t, f, services.BlogPostInput{Title: "Popular", Status: models.StatusPublished})
	counter := services.NewViewCounter(f.db.BlogPostRepo(), f.store)

	page, err := f.blogs.GetPublished(ctx, "popular")
	require.NoError(t, err)
	assert.Zero(t, page.Post.Views)

	for i := 0; i < 3; i++ {
		require.NoError(t, counter.Increment(ctx, post.ID))
	}

	page, err = f.blogs.GetPublished(ctx, "popular")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Post.Views, "the post page is invalidated by a view")

	draft := createPost(t, f, services.BlogPostInput{Title: "Hidden"})
	assert.True(t, errs.IsNotFound(counter.Increment(ctx, draft.ID)))
	assert.True(t, errs.IsNotFound(counter.Increment(ctx, uuid.New())))
}

// brokenIncrement fails the atomic path so the fallback runs.
type brokenIncrement struct {
	views map[uuid.UUID]int64
}

func (b *brokenIncrement) FindByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return &models.BlogPost{ID: id, Slug: "post"}, nil
}

func (b *brokenIncrement) IncrementViews(context.Context, uuid.UUID) error {
	return errs.NewDatabaseError("count view of", "blog post", errors.New("function views_increment does not exist"))
}

func (b *brokenIncrement) GetViews(_ context.Context, id uuid.UUID) (int64, error) {
	return b.views[id], nil
}

func (b *brokenIncrement) SetViews(_ context.Context, id uuid.UUID, views int64) error {
	b.views[id] = views
	return nil
}

func TestViewCounterFallsBackToReadThenWrite(t *testing.T) {
	id := uuid.New()
	store := &brokenIncrement{views: map[uuid.UUID]int64{id: 7}}
	counter := services.NewViewCounter(store, nil)

	require.NoError(t, counter.Increment(context.Background(), id))
	assert.EqualValues(t, 8, store.views[id])
}
