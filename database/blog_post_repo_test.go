package database_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

func addPost(t *testing.T, db database.Database, slug string, status models.PostStatus, featured bool, publishedAt *time.Time) *models.BlogPost {
	t.Helper()
	p := &models.BlogPost{
		Title:       slug,
		Slug:        slug,
		Content:     datatypes.JSON(`{"type":"doc","content":[]}`),
		Status:      status,
		Featured:    featured,
		PublishedAt: publishedAt,
	}
	require.NoError(t, db.BlogPostRepo().Add(context.Background(), p))
	return p
}

func at(day int) *time.Time {
	t := time.Date(2024, 5, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestFindPublished(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	addPost(t, db, "draft", models.StatusDraft, true, nil)
	old := addPost(t, db, "old", models.StatusPublished, true, at(1))
	recent := addPost(t, db, "recent", models.StatusPublished, false, at(9))
	trashed := addPost(t, db, "trashed", models.StatusPublished, true, at(5))
	now := time.Now()
	require.NoError(t, db.BlogPostRepo().SetDeletedAt(ctx, trashed.ID, &now, now))

	posts, err := db.BlogPostRepo().FindPublished(ctx, database.PublishedQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, recent.ID, posts[0].ID)
	assert.Equal(t, old.ID, posts[1].ID)

	featured, err := db.BlogPostRepo().FindPublished(ctx, database.PublishedQuery{FeaturedOnly: true, Limit: 3})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, old.ID, featured[0].ID)
}

func TestAdminOrderPutsDraftsFirst(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	addPost(t, db, "published", models.StatusPublished, false, at(3))
	addPost(t, db, "draft", models.StatusDraft, false, nil)
	addPost(t, db, "pinned", models.StatusPublished, true, at(1))

	posts, err := db.BlogPostRepo().FindAll(ctx, models.ScopeActive)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"pinned", "draft", "published"}, []string{posts[0].Slug, posts[1].Slug, posts[2].Slug})
}

func TestSlugTakenIgnoresTrash(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	repo := db.BlogPostRepo()
	p := addPost(t, db, "hello", models.StatusDraft, false, nil)

	taken, err := repo.SlugTaken(ctx, "hello", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugTaken(ctx, "hello", p.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a post does not collide with itself")

	now := time.Now()
	require.NoError(t, repo.SetDeletedAt(ctx, p.ID, &now, now))
	taken, err = repo.SlugTaken(ctx, "hello", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)

	// the partial index lets a new post reuse the slug
	addPost(t, db, "hello", models.StatusDraft, false, nil)
	found, err := repo.FindActiveBySlug(ctx, "hello")
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, found.ID)
}

func TestDuplicateActiveSlugIsConflict(t *testing.T) {
	db := newDatabase(t)
	addPost(t, db, "same", models.StatusDraft, false, nil)

	err := db.BlogPostRepo().Add(context.Background(), &models.BlogPost{
		Title:   "again",
		Slug:    "same",
		Content: datatypes.JSON(`{}`),
		Status:  models.StatusDraft,
	})
	assert.True(t, errs.IsConflict(err))
}

func TestIncrementViews(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	repo := db.BlogPostRepo()
	p := addPost(t, db, "counted", models.StatusPublished, false, at(1))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementViews(ctx, p.ID))
		}()
	}
	wg.Wait()

	views, err := repo.GetViews(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 20, views)

	draft := addPost(t, db, "unlisted", models.StatusDraft, false, nil)
	assert.True(t, errs.IsNotFound(repo.IncrementViews(ctx, draft.ID)))
	assert.True(t, errs.IsNotFound(repo.IncrementViews(ctx, uuid.New())))
}

func TestSetViews(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	repo := db.BlogPostRepo()
	p := addPost(t, db, "fixed", models.StatusPublished, false, at(1))

	require.NoError(t, repo.SetViews(ctx, p.ID, 41))
	views, err := repo.GetViews(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 41, views)

	assert.True(t, errs.IsValidationError(repo.SetViews(ctx, p.ID, -1)))
	_, err = repo.GetViews(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}
