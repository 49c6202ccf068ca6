package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/content"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const (
	DefaultCacheTTL      = 5 * time.Minute
	DefaultFeaturedLimit = 3
)

var emptyDocument = datatypes.JSON(`{"type":"doc","content":[]}`)

type BlogStore interface {
	EntityStore[models.BlogPost]
	FindActiveBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	FindPublished(ctx context.Context, q database.PublishedQuery) ([]*models.BlogPost, error)
}

// CacheConfig is shared by the services that serve cached public reads.
type CacheConfig struct {
	Store cache.Store
	TTL   time.Duration
}

func (c CacheConfig) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultCacheTTL
	}
	return c.TTL
}

type BlogServiceConfig struct {
	Cache CacheConfig
	// StrictContent rejects unknown node kinds and misplaced list children
	// on write.
	StrictContent bool
	Now           func() time.Time
}

type BlogService struct {
	posts     BlogStore
	lifecycle *Lifecycle[models.BlogPost]
	cache     CacheConfig
	strict    bool
	logger    zerolog.Logger
}

func NewBlogService(posts BlogStore, audit *AuditLogger, cfg BlogServiceConfig) *BlogService {
	s := &BlogService{
		posts:  posts,
		cache:  cfg.Cache,
		strict: cfg.StrictContent,
		logger: log.With().Str("service", "blog").Logger(),
	}
	opts := []LifecycleOption[models.BlogPost]{
		WithTags(func(p models.BlogPost) []string { return []string{cache.BlogSlugTag(p.Slug)} }),
		WithRestoreGuard(s.guardRestore),
		WithRestoreConflict(func(p models.BlogPost) error { return errs.NewDuplicateSlugError(p.Slug) }),
	}
	if cfg.Now != nil {
		opts = append(opts, WithClock[models.BlogPost](cfg.Now))
	}
	var inv cache.Invalidator
	if cfg.Cache.Store != nil {
		inv = cfg.Cache.Store
	}
	s.lifecycle = NewLifecycle[models.BlogPost](posts, audit, inv, opts...)
	return s
}

func (s *BlogService) Lifecycle() *Lifecycle[models.BlogPost] { return s.lifecycle }

// BlogPostInput is the body of a create request.
type BlogPostInput struct {
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	Excerpt        *string           `json:"excerpt"`
	CoverImage     *string           `json:"coverImage"`
	Content        json.RawMessage   `json:"content"`
	Status         models.PostStatus `json:"status"`
	Featured       bool              `json:"featured"`
	SEOTitle       *string           `json:"seoTitle"`
	SEODescription *string           `json:"seoDescription"`
	OrderIndex     int               `json:"orderIndex"`
}

// Create validates input, derives slug and reading time, and stores a new
// post. Posts created as published are stamped immediately.
func (s *BlogService) Create(ctx context.Context, actor auth.Identity, in BlogPostInput) (*models.BlogPost, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	slug, err := s.resolveSlug(in.Slug, title)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, errs.NewValidationError("status", "status must be draft, published or archived")
	}

	body, minutes, err := s.prepareContent(in.Content)
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Title:          title,
		Slug:           slug,
		Excerpt:        trimmedPtr(in.Excerpt),
		CoverImage:     trimmedPtr(in.CoverImage),
		Content:        body,
		Status:         status,
		Featured:       in.Featured,
		ReadingTime:    minutes,
		SEOTitle:       trimmedPtr(in.SEOTitle),
		SEODescription: trimmedPtr(in.SEODescription),
		AuthorEmail:    actor.Email,
		OrderIndex:     in.OrderIndex,
	}
	if status == models.StatusPublished {
		now := s.lifecycle.Now()
		post.PublishedAt = &now
	}

	err = s.lifecycle.Create(ctx, actor, post, map[string]any{"slug": slug, "status": status})
	if errs.IsConflict(err) {
		// lost a race with another create on the same slug
		return nil, errs.NewDuplicateSlugError(slug)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

var (
	blogReadOnlyFields = []string{"id", "createdAt", "updatedAt", "authorEmail", "views", "publishedAt", "readingTime", "deletedAt"}
	blogWritableFields = []string{"title", "slug", "excerpt", "coverImage", "content", "status", "featured", "seoTitle", "seoDescription", "orderIndex"}
)

// Update applies a partial update to an Active post and logs exactly one
// audit action, chosen in priority order: PUBLISHED, UNPUBLISHED,
// CONTENT_UPDATED, FEATURED_TOGGLED, UPDATE.
func (s *BlogService) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, patch Patch) (*models.BlogPost, error) {
	if err := patch.check(blogReadOnlyFields, blogWritableFields); err != nil {
		return nil, err
	}
	current, err := s.lifecycle.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if err := textColumn(changes, patch, "title", "title"); err != nil {
		return nil, err
	}

	if patch.Has("slug") {
		title := current.Title
		if t, ok := changes["title"].(string); ok {
			title = t
		}
		raw := ""
		if !isNull(patch["slug"]) {
			if raw, err = decodeField[string](patch, "slug"); err != nil {
				return nil, err
			}
		}
		slug, err := s.resolveSlug(raw, title)
		if err != nil {
			return nil, err
		}
		if slug != current.Slug {
			if err := s.ensureSlugFree(ctx, slug, id); err != nil {
				return nil, err
			}
			changes["slug"] = slug
		}
	}

	for field, column := range map[string]string{
		"excerpt":        "excerpt",
		"coverImage":     "cover_image",
		"seoTitle":       "seo_title",
		"seoDescription": "seo_description",
	} {
		if err := optionalColumn(changes, patch, field, column); err != nil {
			return nil, err
		}
	}
	if err := boolColumn(changes, patch, "featured", "featured"); err != nil {
		return nil, err
	}
	if err := intColumn(changes, patch, "orderIndex", "order_index"); err != nil {
		return nil, err
	}

	if patch.Has("content") {
		body, minutes, err := s.prepareContent(patch["content"])
		if err != nil {
			return nil, err
		}
		changes["content"] = body
		changes["reading_time"] = minutes
	}

	action := models.ActionUpdate
	switch {
	case patch.Has("content"):
		action = models.ActionContentUpdated
	case patch.Only("featured"):
		action = models.ActionFeaturedToggled
	}

	if patch.Has("status") {
		status, err := decodeField[models.PostStatus](patch, "status")
		if err != nil {
			return nil, err
		}
		if !status.Valid() {
			return nil, errs.NewValidationError("status", "status must be draft, published or archived")
		}
		changes["status"] = status
		switch {
		case status == models.StatusPublished && current.Status != models.StatusPublished:
			action = models.ActionPublished
			if current.PublishedAt == nil {
				changes["published_at"] = s.lifecycle.Now()
			}
		case status == models.StatusDraft && current.Status == models.StatusPublished:
			action = models.ActionUnpublished
		}
	}

	updated, err := s.lifecycle.Update(ctx, actor, id, changes, action, map[string]any{"fields": patch.Fields()})
	if errs.IsConflict(err) {
		if slug, ok := changes["slug"].(string); ok {
			return nil, errs.NewDuplicateSlugError(slug)
		}
	}
	return updated, err
}

// SetFeatured is the dedicated toggle used by the admin list.
func (s *BlogService) SetFeatured(ctx context.Context, actor auth.Identity, id uuid.UUID, featured bool) (*models.BlogPost, error) {
	raw, _ := json.Marshal(featured)
	return s.Update(ctx, actor, id, Patch{"featured": raw})
}

func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return s.lifecycle.Get(ctx, id)
}

func (s *BlogService) ListAdmin(ctx context.Context, scope models.Scope) ([]*models.BlogPost, error) {
	return s.lifecycle.List(ctx, scope)
}

func (s *BlogService) SoftDelete(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	return s.lifecycle.SoftDelete(ctx, actor, id)
}

func (s *BlogService) Restore(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	return s.lifecycle.Restore(ctx, actor, id)
}

func (s *BlogService) Purge(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	return s.lifecycle.Purge(ctx, actor, id)
}

// ListPublished returns every post readers can see, newest first.
func (s *BlogService) ListPublished(ctx context.Context) ([]*models.BlogPost, error) {
	return cache.Fetch(ctx, s.cache.Store, cache.Key(string(models.KindBlog), "published"), s.cache.ttl(),
		[]string{cache.KindTag(string(models.KindBlog))},
		func(ctx context.Context) ([]*models.BlogPost, error) {
			return s.posts.FindPublished(ctx, database.PublishedQuery{})
		})
}

// ListFeatured returns up to limit featured posts; limit <= 0 uses the default.
func (s *BlogService) ListFeatured(ctx context.Context, limit int) ([]*models.BlogPost, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	key := cache.Key(string(models.KindBlog), "featured", strconv.Itoa(limit))
	return cache.Fetch(ctx, s.cache.Store, key, s.cache.ttl(),
		[]string{cache.KindTag(string(models.KindBlog))},
		func(ctx context.Context) ([]*models.BlogPost, error) {
			return s.posts.FindPublished(ctx, database.PublishedQuery{FeaturedOnly: true, Limit: limit})
		})
}

// PublishedPost is a post together with its rendered body.
type PublishedPost struct {
	Post *models.BlogPost `json:"post"`
	HTML string           `json:"html"`
}

// GetPublished returns the post with slug when readers may see it, rendered.
func (s *BlogService) GetPublished(ctx context.Context, slug string) (*PublishedPost, error) {
	key := cache.Key(string(models.KindBlog), "slug", slug)
	return cache.Fetch(ctx, s.cache.Store, key, s.cache.ttl(),
		[]string{cache.BlogSlugTag(slug)},
		func(ctx context.Context) (*PublishedPost, error) {
			post, err := s.posts.FindActiveBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
			if !post.Public() {
				return nil, errs.NewNotFound("blog post")
			}
			return &PublishedPost{Post: post, HTML: s.render(post)}, nil
		})
}

func (s *BlogService) render(post *models.BlogPost) string {
	doc, err := content.DecodeTolerant(post.Content)
	if err != nil {
		s.logger.Warn().Err(err).Str("postId", post.ID.String()).Msg("stored content is malformed, skipping bad nodes")
	}
	if doc == nil {
		return ""
	}
	return content.Render(doc)
}

// prepareContent runs the write pipeline: validate, decode, drop empty
// images, estimate. Content that is valid JSON but not a tree is stored as
// given with the default reading time.
func (s *BlogService) prepareContent(raw json.RawMessage) (datatypes.JSON, int, error) {
	if err := content.Validate(raw, content.ValidateOptions{Strict: s.strict}); err != nil {
		return nil, 0, errs.NewValidationError("content", err.Error())
	}
	doc, err := content.Decode(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("content could not be decoded, using default reading time")
		return datatypes.JSON(raw), content.DefaultReadingMinutes, nil
	}
	if doc.Empty() {
		return emptyDocument, 0, nil
	}
	normalized := content.Normalize(doc)
	body, err := json.Marshal(normalized)
	if err != nil {
		return nil, 0, errs.NewInternalErrorWithCause("encode content", err)
	}
	return datatypes.JSON(body), content.Estimate(normalized), nil
}

// resolveSlug normalises an explicit slug, or derives one from title.
func (s *BlogService) resolveSlug(explicit, title string) (string, error) {
	source := strings.TrimSpace(explicit)
	if source == "" {
		source = title
	}
	slug := content.DeriveSlug(source)
	if slug == "" {
		return "", errs.NewValidationError("slug", "a slug could not be derived, letters or digits are required")
	}
	return slug, nil
}

func (s *BlogService) ensureSlugFree(ctx context.Context, slug string, exclude uuid.UUID) error {
	taken, err := s.posts.SlugTaken(ctx, slug, exclude)
	if err != nil {
		return err
	}
	if taken {
		return errs.NewDuplicateSlugError(slug)
	}
	return nil
}

// guardRestore refuses to bring back a post whose slug was reused while it
// sat in the trash.
func (s *BlogService) guardRestore(ctx context.Context, post models.BlogPost) error {
	return s.ensureSlugFree(ctx, post.Slug, post.ID)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return trimmedOrNil(*s)
}
