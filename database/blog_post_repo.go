package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Drafts sort ahead of everything published; within each group newest first.
const blogAdminOrder = "featured DESC, published_at IS NULL DESC, published_at DESC, created_at DESC"

const blogPublicOrder = "published_at DESC, created_at DESC"

type BlogPostRepo struct {
	*EntityRepo[models.BlogPost]
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{NewEntityRepo[models.BlogPost](db, blogAdminOrder)}
}

// PublishedQuery narrows a public listing.
type PublishedQuery struct {
	FeaturedOnly bool
	// Limit of zero or less means no limit.
	Limit int
}

func (r *BlogPostRepo) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("status = ?", models.StatusPublished)
}

// FindPublished returns the posts readers can see, newest first.
func (r *BlogPostRepo) FindPublished(ctx context.Context, q PublishedQuery) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	db := r.published(ctx).Order(blogPublicOrder)
	if q.FeaturedOnly {
		db = db.Where("featured = ?", true)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if err := db.Find(&posts).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "blog post", err)
	}
	return posts, nil
}

// FindActiveBySlug returns the live post using slug, whatever its status.
func (r *BlogPostRepo) FindActiveBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Where("slug = ? AND deleted_at IS NULL", slug).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("blog post")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}
	return &post, nil
}

// SlugTaken reports whether a live post other than exclude already uses slug.
// Trashed posts do not hold on to their slug.
func (r *BlogPostRepo) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("slug = ? AND deleted_at IS NULL AND id <> ?", slug, exclude).
		Count(&count).Error
	if err != nil {
		return false, errs.NewDatabaseError("check slug of", "blog post", err)
	}
	return count > 0, nil
}

// IncrementViews adds one to the counter in a single statement so concurrent
// readers never lose an increment.
func (r *BlogPostRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ? AND deleted_at IS NULL AND status = ?", id, models.StatusPublished).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return errs.NewDatabaseError("count view of", "blog post", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("blog post")
	}
	return nil
}

// GetViews and SetViews back the read-then-write path used when the
// single-statement increment is unavailable.
func (r *BlogPostRepo) GetViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var views []int64
	err := r.published(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		Pluck("views", &views).Error
	if err != nil {
		return 0, errs.NewDatabaseError("read views of", "blog post", err)
	}
	if len(views) == 0 {
		return 0, errs.NewNotFound("blog post")
	}
	return views[0], nil
}

func (r *BlogPostRepo) SetViews(ctx context.Context, id uuid.UUID, views int64) error {
	if views < 0 {
		return errs.NewValidationError("views", "views cannot be negative")
	}
	res := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", views)
	if res.Error != nil {
		return errs.NewDatabaseError("write views of", "blog post", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("blog post")
	}
	return nil
}
